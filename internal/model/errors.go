package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMissing is returned when neither document text nor a source reference was supplied
	ErrInputMissing = errors.New("input missing: provide document text or a source reference")

	// ErrSourceUnreadable is returned when a source document could not be turned into text
	ErrSourceUnreadable = errors.New("source unreadable")
)

// SourceError reports which source failed and why
type SourceError struct {
	Ref string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSourceUnreadable, e.Ref, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnreadable, e.Err}
}
