package content

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformed        = errors.New("malformed document")
	ErrInvalidPageSize  = errors.New("invalid posts per page")
)

// LoadError reports a failed fetch or parse of one of the content documents.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
