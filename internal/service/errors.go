package service

import (
	"errors"
	"fmt"

	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

var (
	// ErrSuperseded is returned when a newer analysis for the same user
	// started before this one finished. The result is discarded.
	ErrSuperseded = errors.New("analysis superseded by a newer request")

	// ErrInvalidWindow is returned for inverted or oversized windows
	ErrInvalidWindow = errors.New("invalid analysis window")
)

// SupersededError carries the generation that replaced a discarded analysis
type SupersededError struct {
	Generation uint64 // discarded generation
	Latest     uint64 // generation that replaced it
}

func (e *SupersededError) Error() string {
	return fmt.Sprintf("analysis generation %d superseded by %d", e.Generation, e.Latest)
}

func (e *SupersededError) Unwrap() error { return ErrSuperseded }

// FetchError wraps a failed log fetch for one log kind
type FetchError struct {
	Kind string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s logs: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Temporary reports whether the store may recover if the request is retried
func (e *FetchError) Temporary() bool {
	return supabase.IsTemporary(e.Err)
}

// ParamKind classifies a ParamError
type ParamKind int

const (
	ParamDate ParamKind = iota
	ParamTimezone
)

// ParamError reports a malformed request parameter
type ParamError struct {
	Kind   ParamKind
	Field  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
