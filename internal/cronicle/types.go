package cronicle

import (
	"encoding/json"

	"github.com/djlord-it/croniclectl/internal/domain"
)

// Operation names, used for metrics labels and breaker keys.
const (
	OpCreateEvent = "create_event"
	OpGetSchedule = "get_schedule"
	OpGetEvent    = "get_event"
	OpDeleteEvent = "delete_event"
)

// Filter selects a single event by id or title for get_event lookups.
// The scheduler does not guarantee at most one title match.
type Filter struct {
	ID    string
	Title string
}

// envelope is the status header every Cronicle response carries. The
// code field is 0 on success but may be a string on failure (e.g.
// "session" for a rejected API key), hence the raw handling.
type envelope struct {
	Code        json.RawMessage `json:"code"`
	Description string          `json:"description"`
}

func (e envelope) ok() bool {
	code := string(e.Code)
	return len(e.Code) == 0 || code == "0" || code == `"0"`
}

func (e envelope) sessionRejected() bool {
	return string(e.Code) == `"session"`
}

type createResponse struct {
	ID string `json:"id"`
}

type scheduleResponse struct {
	Rows []domain.Event `json:"rows"`
}

type eventResponse struct {
	Event *domain.Event `json:"event"`
}

type deleteRequest struct {
	ID string `json:"id"`
}
