package domain

import (
	"github.com/djlord-it/croniclectl/internal/timing"
)

// Cronicle built-in identifiers and outbound parameter defaults.
const (
	PluginHTTPRequest = "urlplug"
	CategoryGeneral   = "general"
	TargetAllGroup    = "allgrp"

	DefaultHeaders = "User-Agent: Cronicle/1.0"
	DefaultTimeout = 30
)

// Event is a scheduled job definition as Cronicle represents it.
// Events are never mutated after creation; updates are delete-and-recreate.
type Event struct {
	// ID is assigned by the scheduler and is empty until the event is created.
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`

	Enabled  Flag   `json:"enabled"`
	Category string `json:"category,omitempty"`

	// Plugin must be a non-empty token without whitespace. The scheduler
	// maps anything else to a disabled "none" plugin instead of failing,
	// so the token is validated locally before submission.
	Plugin string `json:"plugin"`
	Target string `json:"target,omitempty"`

	Timing timing.Timing `json:"timing"`

	// Timezone is always "UTC" on submitted events; the timing fields are
	// already normalized and a per-event override is not supported.
	Timezone string `json:"timezone,omitempty"`

	Params HTTPRequestParams `json:"params"`
}
