// Package provider implements the upstream data sources: league schedule
// APIs and odds vendors. Each provider normalizes its API's response into
// the models shapes at the boundary, so the reconciliation core only ever
// sees well-typed input. Provider failures surface as typed errors here and
// never propagate into the core.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/oddsboard/internal/models"
)

// ScheduleSource fetches a league's schedule from its official API
type ScheduleSource interface {
	// FetchByDate retrieves the games scheduled on the given calendar date
	FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error)

	// League returns the league this source covers
	League() models.League

	// Name returns the name of the source for logs and metrics
	Name() string
}

// LiveSource is implemented by schedule sources that also expose an
// in-progress games feed.
type LiveSource interface {
	FetchLive(ctx context.Context) ([]models.ScheduleEntry, error)
}

// OddsSource fetches a vendor's odds rows for a league and date
type OddsSource interface {
	FetchOdds(ctx context.Context, league models.League, date time.Time) ([]models.OddsRow, error)
	Name() string
}

// Error represents errors from provider operations
type Error struct {
	Source  string // provider name
	Code    string // error code, e.g. "rate_limit_exceeded"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// ErrMissingAPIKey indicates a source was constructed without credentials
var ErrMissingAPIKey = errors.New("missing API key")

// NewError creates a new provider error
func NewError(source, code, message string, err error) *Error {
	return &Error{Source: source, Code: code, Message: message, Err: err}
}
