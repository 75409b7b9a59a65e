package domain

import "fmt"

// ValidationError reports malformed or insufficient local input.
// It is raised before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
