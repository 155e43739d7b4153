package planner

import (
	"errors"

	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// Error codes surfaced by the planner.
const (
	CodeUnauthenticated     = "unauthenticated"
	CodeNothingToSave       = "nothing_to_save"
	CodeMissingTitle        = "missing_title"
	CodeSaveInProgress      = "save_in_progress"
	CodeRemoteCreateFailed  = "remote_create_failed"
	CodeRemotePersistFailed = "remote_persist_failed"
	CodeLoadFailed          = "load_failed"
	CodeSessionNotFound     = "not_found"
)

// Severity of a surfaced failure.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrNothingToSave   = errors.New("no events to save")
	ErrMissingTitle    = errors.New("title is blank")
	ErrSaveInProgress  = errors.New("save already in flight")
	ErrSessionNotFound = errors.New("planner session not found")
)

const (
	genericCreateMessage  = "failed to create itinerary"
	genericPersistMessage = "failed to save itinerary places"
	genericLoadMessage    = "failed to load itinerary"
)

// RemoteError carries a failure reported by the persistence service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote request failed"
	}
	return e.Message
}

// PersistError reports that the itinerary record exists but its places were
// not stored. The record is not rolled back.
type PersistError struct {
	ItineraryID string
	Err         error
}

func (e *PersistError) Error() string {
	return "itinerary " + e.ItineraryID + " saved without places: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// SeverityOf classifies a planner failure for presentation.
func SeverityOf(err error) Severity {
	if apperrors.IsCode(err, CodeNothingToSave) {
		return SeverityWarn
	}
	return SeverityError
}

// FieldOf names the form field a failure belongs to, if any.
func FieldOf(err error) string {
	if apperrors.IsCode(err, CodeMissingTitle) {
		return "title"
	}
	return ""
}

// remoteMessage prefers the server supplied message over a generic one.
func remoteMessage(err error, generic string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return generic
}
