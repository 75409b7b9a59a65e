// Package events orchestrates job definitions: defaulting, local
// validation and title/id lookups on top of the scheduler client.
package events

import (
	"context"
	"strings"
	"unicode"

	"github.com/djlord-it/croniclectl/internal/cronicle"
	"github.com/djlord-it/croniclectl/internal/domain"
)

// Client is the subset of the scheduler client the service uses.
type Client interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetSchedule(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, filter cronicle.Filter) (*domain.Event, error)
}

type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

// Create validates the definition locally, applies Cronicle defaults and
// submits it. The returned event carries the scheduler-assigned id.
// Client failures propagate unchanged.
func (s *Service) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := validate(event); err != nil {
		return domain.Event{}, err
	}
	applyDefaults(&event)
	return s.client.CreateEvent(ctx, event)
}

// List is a direct passthrough to the scheduler's enumeration endpoint.
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	return s.client.GetSchedule(ctx)
}

// Get looks up a single event via the scheduler's get_event endpoint.
// A nil event with a nil error means no match.
func (s *Service) Get(ctx context.Context, title, id string) (*domain.Event, error) {
	if title == "" && id == "" {
		return nil, domain.ValidationError{Field: "filter", Message: "title or id required"}
	}
	return s.client.GetEvent(ctx, cronicle.Filter{ID: id, Title: title})
}

// Find lists the full schedule and returns every event whose title or id
// matches (logical OR). Titles are not unique, so multiple matches are
// normal. Both filters empty is a caller error.
func (s *Service) Find(ctx context.Context, title, id string) ([]domain.Event, error) {
	if title == "" && id == "" {
		return nil, domain.ValidationError{Field: "filter", Message: "title or id required"}
	}

	rows, err := s.client.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}

	var matches []domain.Event
	for _, event := range rows {
		if Matches(event, title, id) {
			matches = append(matches, event)
		}
	}
	return matches, nil
}

// Matches reports whether the event matches a title-or-id filter. An
// empty filter field never matches, so an unset filter selects nothing.
func Matches(event domain.Event, title, id string) bool {
	return (title != "" && event.Title == title) || (id != "" && event.ID == id)
}

func validate(event domain.Event) error {
	if event.Title == "" {
		return domain.ValidationError{Field: "title", Message: "required"}
	}
	if event.Plugin == "" {
		return domain.ValidationError{Field: "plugin", Message: "required"}
	}
	// The scheduler does not reject a malformed plugin token; it silently
	// maps it to a disabled "none" plugin. Catch it here instead.
	if strings.IndexFunc(event.Plugin, unicode.IsSpace) >= 0 {
		return domain.ValidationError{Field: "plugin", Message: "must not contain whitespace"}
	}
	if event.Timing.IsZero() || event.Timing.Resolve().IsZero() {
		return domain.ValidationError{Field: "timing", Message: "required"}
	}
	if event.Params.Method == "" {
		return domain.ValidationError{Field: "params.method", Message: "required"}
	}
	if event.Params.URL == "" {
		return domain.ValidationError{Field: "params.url", Message: "required"}
	}
	return nil
}

func applyDefaults(event *domain.Event) {
	if event.Category == "" {
		event.Category = domain.CategoryGeneral
	}
	if event.Target == "" {
		event.Target = domain.TargetAllGroup
	}
	// Timing fields are resolved in UTC; a per-event timezone override is
	// not supported.
	event.Timezone = "UTC"

	if event.Params.Headers == "" {
		event.Params.Headers = domain.DefaultHeaders
	}
	if event.Params.Timeout == 0 {
		event.Params.Timeout = domain.DefaultTimeout
	}
}
