package domain

import (
	"encoding/json"
	"testing"
)

func TestFlag_MarshalsAsInteger(t *testing.T) {
	data, err := json.Marshal(struct {
		Enabled  Flag `json:"enabled"`
		Disabled Flag `json:"disabled"`
	}{Enabled: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"enabled":1,"disabled":0}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestFlag_UnmarshalAcceptsIntegersAndBooleans(t *testing.T) {
	var f Flag
	for _, raw := range []string{"1", "true"} {
		if err := json.Unmarshal([]byte(raw), &f); err != nil || !bool(f) {
			t.Errorf("unmarshal %q: got %v, err=%v", raw, f, err)
		}
	}
	for _, raw := range []string{"0", "false"} {
		if err := json.Unmarshal([]byte(raw), &f); err != nil || bool(f) {
			t.Errorf("unmarshal %q: got %v, err=%v", raw, f, err)
		}
	}
	if err := json.Unmarshal([]byte(`"yes"`), &f); err == nil {
		t.Error("expected error for non 0/1 value")
	}
}
