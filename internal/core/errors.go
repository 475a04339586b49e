package core

import (
	"errors"
	"fmt"
)

// Session errors. All of them leave the store and the form unchanged.
var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrFormLocked          = errors.New("form locked")
	ErrEmptyExportSet      = errors.New("nothing to export")
	ErrMissingIdentifier   = errors.New("missing identifier")
	ErrNoEditTarget        = errors.New("no edit target")
	ErrUnlockNotConfirmed  = errors.New("unlock not confirmed")
	ErrInvalidMode         = errors.New("invalid mode")
)

func recordNotFound(id string) error {
	return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
}

func duplicateIdentifier(id string) error {
	return fmt.Errorf("%w: %q already exists", ErrDuplicateIdentifier, id)
}
