package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/djlord-it/croniclectl/internal/cronicle"
	"github.com/djlord-it/croniclectl/internal/domain"
	"github.com/djlord-it/croniclectl/internal/timing"
)

// fakeClient records calls and returns canned responses.
type fakeClient struct {
	created  []domain.Event
	schedule []domain.Event
	event    *domain.Event
	err      error

	createCalls   int
	scheduleCalls int
	getCalls      int
	lastFilter    cronicle.Filter
}

func (f *fakeClient) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	f.createCalls++
	if f.err != nil {
		return domain.Event{}, f.err
	}
	event.ID = "e0001"
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeClient) GetSchedule(context.Context) ([]domain.Event, error) {
	f.scheduleCalls++
	return f.schedule, f.err
}

func (f *fakeClient) GetEvent(_ context.Context, filter cronicle.Filter) (*domain.Event, error) {
	f.getCalls++
	f.lastFilter = filter
	return f.event, f.err
}

func validEvent() domain.Event {
	return domain.Event{
		Title:  "nightly-report",
		Plugin: domain.PluginHTTPRequest,
		Timing: timing.At(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)),
		Params: domain.HTTPRequestParams{
			Method: "POST",
			URL:    "https://example.com/hook",
		},
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	created, err := svc.Create(context.Background(), validEvent())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "e0001" {
		t.Errorf("id = %q", created.ID)
	}
	if created.Category != domain.CategoryGeneral {
		t.Errorf("category = %q, want %q", created.Category, domain.CategoryGeneral)
	}
	if created.Target != domain.TargetAllGroup {
		t.Errorf("target = %q, want %q", created.Target, domain.TargetAllGroup)
	}
	if created.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", created.Timezone)
	}
	if created.Params.Headers != domain.DefaultHeaders {
		t.Errorf("headers = %q", created.Params.Headers)
	}
	if created.Params.Timeout != domain.DefaultTimeout {
		t.Errorf("timeout = %d", created.Params.Timeout)
	}
}

func TestCreate_KeepsExplicitValues(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	event := validEvent()
	event.Category = "reports"
	event.Target = "workers"
	event.Params.Timeout = 120

	created, err := svc.Create(context.Background(), event)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Category != "reports" || created.Target != "workers" || created.Params.Timeout != 120 {
		t.Fatalf("explicit values overwritten: %+v", created)
	}
}

func TestCreate_ValidationFailuresSkipRemote(t *testing.T) {
	cases := []struct {
		name   string
		field  string
		mutate func(*domain.Event)
	}{
		{"missing title", "title", func(e *domain.Event) { e.Title = "" }},
		{"missing plugin", "plugin", func(e *domain.Event) { e.Plugin = "" }},
		{"plugin with space", "plugin", func(e *domain.Event) { e.Plugin = "url plug" }},
		{"zero timing", "timing", func(e *domain.Event) { e.Timing = timing.Timing{} }},
		{"empty spec timing", "timing", func(e *domain.Event) { e.Timing = timing.FromSpec(timing.Spec{}) }},
		{"missing method", "params.method", func(e *domain.Event) { e.Params.Method = "" }},
		{"missing url", "params.url", func(e *domain.Event) { e.Params.URL = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			svc := NewService(client)

			event := validEvent()
			tc.mutate(&event)

			_, err := svc.Create(context.Background(), event)
			var verr domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
			if client.createCalls != 0 {
				t.Error("remote call made despite local validation failure")
			}
		})
	}
}

func TestGet_EmptyFilterRejected(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	_, err := svc.Get(context.Background(), "", "")
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if client.getCalls != 0 {
		t.Error("remote call made with empty filter")
	}
}

func TestGet_PassesFilterThrough(t *testing.T) {
	client := &fakeClient{event: &domain.Event{ID: "e7", Title: "backup"}}
	svc := NewService(client)

	event, err := svc.Get(context.Background(), "backup", "e7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if event == nil || event.ID != "e7" {
		t.Fatalf("got %+v", event)
	}
	if client.lastFilter.Title != "backup" || client.lastFilter.ID != "e7" {
		t.Fatalf("filter = %+v", client.lastFilter)
	}
}

func TestFind_MatchesTitleOrID(t *testing.T) {
	client := &fakeClient{schedule: []domain.Event{
		{ID: "e1", Title: "backup"},
		{ID: "e2", Title: "report"},
		{ID: "e3", Title: "backup"},
	}}
	svc := NewService(client)

	matches, err := svc.Find(context.Background(), "backup", "e2")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected all three events (two by title, one by id), got %+v", matches)
	}
}

func TestFind_EmptyFilterRejected(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	if _, err := svc.Find(context.Background(), "", ""); err == nil {
		t.Fatal("expected error")
	}
	if client.scheduleCalls != 0 {
		t.Error("remote call made with empty filter")
	}
}

func TestFind_NoMatches(t *testing.T) {
	client := &fakeClient{schedule: []domain.Event{{ID: "e1", Title: "other"}}}
	svc := NewService(client)

	matches, err := svc.Find(context.Background(), "backup", "")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %+v", matches)
	}
}

func TestMatches_EmptyFieldNeverMatches(t *testing.T) {
	// An event with an empty title must not match an empty title filter,
	// otherwise an unset filter would select everything.
	event := domain.Event{ID: "e1", Title: ""}
	if Matches(event, "", "e2") {
		t.Error("matched on empty title")
	}
	if Matches(domain.Event{ID: "", Title: "x"}, "y", "") {
		t.Error("matched on empty id")
	}
	if !Matches(event, "", "e1") {
		t.Error("id match missed")
	}
}
