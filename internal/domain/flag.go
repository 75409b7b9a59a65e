package domain

import "fmt"

// Flag is a boolean carried as a 0/1 integer on the Cronicle wire.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts both the integer wire form and plain JSON booleans.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("flag: invalid value %s", data)
	}
	return nil
}
