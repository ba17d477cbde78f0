package entities

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPassType = errors.New("unknown pass type")
	ErrEditorBusy      = errors.New("price editor is busy saving")
	ErrNotLoaded       = errors.New("price editor has not been loaded")
)

// InvalidPriceError aborts a commit when a staged field does not hold a
// non-negative decimal. Nothing is written when it is returned.
type InvalidPriceError struct {
	PassType PassType
	Value    string
	Err      error
}

func (e InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %q for %s: %v", e.Value, e.PassType, e.Err)
}

func (e InvalidPriceError) Unwrap() error {
	return e.Err
}

// StorageError is returned when the pricing table could not be read or
// written. The batch that failed was not applied.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("pricing storage: %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}
