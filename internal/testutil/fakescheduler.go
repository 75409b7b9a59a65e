package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/djlord-it/croniclectl/internal/domain"
)

// FakeScheduler is an in-memory Cronicle lookalike backed by httptest.
// It implements the four management endpoints with the scheduler's
// code/description response envelope, including the "session" code for
// a rejected API key.
type FakeScheduler struct {
	APIKey string

	mu      sync.Mutex
	nextID  int
	events  []domain.Event
	deletes int

	// FailDeleteIDs makes delete_event answer with an internal error for
	// the listed ids, for partial-failure tests.
	FailDeleteIDs map[string]bool

	server *httptest.Server
}

// NewFakeScheduler starts a fake scheduler that requires the given API
// key. The server is shut down when the test completes.
func NewFakeScheduler(t *testing.T, apiKey string) *FakeScheduler {
	t.Helper()

	f := &FakeScheduler{APIKey: apiKey, FailDeleteIDs: make(map[string]bool)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/app/create_event/v1/", f.createEvent)
	mux.HandleFunc("/api/app/get_schedule/v1/", f.getSchedule)
	mux.HandleFunc("/api/app/get_event/v1/", f.getEvent)
	mux.HandleFunc("/api/app/delete_event/v1/", f.deleteEvent)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the fake scheduler's base address.
func (f *FakeScheduler) URL() string {
	return f.server.URL
}

// Seed adds events to the schedule without going through the API.
func (f *FakeScheduler) Seed(events ...domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range events {
		if event.ID == "" {
			f.nextID++
			event.ID = fmt.Sprintf("e%04d", f.nextID)
		}
		f.events = append(f.events, event)
	}
}

// Events returns a copy of the current schedule.
func (f *FakeScheduler) Events() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, len(f.events))
	copy(out, f.events)
	return out
}

// DeleteCalls returns how many delete_event requests were received.
func (f *FakeScheduler) DeleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes
}

func (f *FakeScheduler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-API-Key") == f.APIKey {
		return true
	}
	writeJSON(w, map[string]any{"code": "session", "description": "Invalid API Key"})
	return false
}

func (f *FakeScheduler) createEvent(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, map[string]any{"code": "event", "description": "malformed event: " + err.Error()})
		return
	}
	if event.Plugin == "" {
		writeJSON(w, map[string]any{"code": "event", "description": "Plugin not found: (none)"})
		return
	}

	f.mu.Lock()
	f.nextID++
	event.ID = fmt.Sprintf("e%04d", f.nextID)
	f.events = append(f.events, event)
	f.mu.Unlock()

	writeJSON(w, map[string]any{"code": 0, "id": event.ID})
}

func (f *FakeScheduler) getSchedule(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	writeJSON(w, map[string]any{"code": 0, "rows": f.Events()})
}

func (f *FakeScheduler) getEvent(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	id := r.URL.Query().Get("id")
	title := r.URL.Query().Get("title")

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if (id != "" && event.ID == id) || (title != "" && event.Title == title) {
			writeJSON(w, map[string]any{"code": 0, "event": event})
			return
		}
	}
	// No match: success envelope without an event.
	writeJSON(w, map[string]any{"code": 0})
}

func (f *FakeScheduler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]any{"code": "event", "description": "malformed request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++

	if f.FailDeleteIDs[req.ID] {
		writeJSON(w, map[string]any{"code": "internal", "description": "simulated failure"})
		return
	}

	for i, event := range f.events {
		if event.ID == req.ID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			writeJSON(w, map[string]any{"code": 0})
			return
		}
	}
	writeJSON(w, map[string]any{"code": "event", "description": "Failed to locate event: " + req.ID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
