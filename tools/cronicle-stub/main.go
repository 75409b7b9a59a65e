// cronicle-stub is an in-memory stand-in for a Cronicle server, for
// developing and demoing croniclectl without a real scheduler. It keeps
// the schedule in memory and answers the four management endpoints with
// Cronicle's code/description envelope. It does not execute anything.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
)

type event struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Enabled  json.RawMessage `json:"enabled,omitempty"`
	Category string          `json:"category,omitempty"`
	Plugin   string          `json:"plugin"`
	Target   string          `json:"target,omitempty"`
	Timing   json.RawMessage `json:"timing,omitempty"`
	Timezone string          `json:"timezone,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

var (
	mu     sync.Mutex
	nextID int
	events []event
	apiKey string
)

func main() {
	addr := ":3012"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}
	apiKey = os.Getenv("CRONICLE_API_KEY")
	if apiKey == "" {
		apiKey = "stubkey"
		log.Printf("cronicle-stub: CRONICLE_API_KEY not set, using %q", apiKey)
	}

	http.HandleFunc("/api/app/create_event/v1/", createEvent)
	http.HandleFunc("/api/app/get_schedule/v1/", getSchedule)
	http.HandleFunc("/api/app/get_event/v1/", getEvent)
	http.HandleFunc("/api/app/delete_event/v1/", deleteEvent)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	log.Printf("cronicle-stub: listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-API-Key") == apiKey {
		return true
	}
	writeJSON(w, map[string]any{"code": "session", "description": "Invalid API Key"})
	return false
}

func createEvent(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	var ev event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, map[string]any{"code": "event", "description": "malformed event: " + err.Error()})
		return
	}

	mu.Lock()
	nextID++
	ev.ID = fmt.Sprintf("stub%06d", nextID)
	events = append(events, ev)
	total := len(events)
	mu.Unlock()

	log.Printf("cronicle-stub: created %s title=%q (%d scheduled)", ev.ID, ev.Title, total)
	writeJSON(w, map[string]any{"code": 0, "id": ev.ID})
}

func getSchedule(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	mu.Lock()
	rows := make([]event, len(events))
	copy(rows, events)
	mu.Unlock()

	writeJSON(w, map[string]any{"code": 0, "rows": rows})
}

func getEvent(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	id := r.URL.Query().Get("id")
	title := r.URL.Query().Get("title")

	mu.Lock()
	defer mu.Unlock()
	for _, ev := range events {
		if (id != "" && ev.ID == id) || (title != "" && ev.Title == title) {
			writeJSON(w, map[string]any{"code": 0, "event": ev})
			return
		}
	}
	writeJSON(w, map[string]any{"code": 0})
}

func deleteEvent(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]any{"code": "event", "description": "malformed request"})
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for i, ev := range events {
		if ev.ID == req.ID {
			events = append(events[:i], events[i+1:]...)
			log.Printf("cronicle-stub: deleted %s title=%q (%d scheduled)", ev.ID, ev.Title, len(events))
			writeJSON(w, map[string]any{"code": 0})
			return
		}
	}
	writeJSON(w, map[string]any{"code": "event", "description": "Failed to locate event: " + req.ID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("cronicle-stub: json encode error: %v", err)
	}
}
