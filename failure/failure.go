// Package failure defines the error taxonomy shared by the store, the service
// and the HTTP layer. Producers wrap one of the sentinels with %w; consumers
// classify with errors.Is.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or blank required argument. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrSerialization marks an envelope that could not be encoded as JSON.
	ErrSerialization = errors.New("serialization failed")

	// ErrPersistence marks a failed storage read or write, including an
	// insert that did not yield a generated identifier.
	ErrPersistence = errors.New("persistence failed")

	// ErrDecodeAnomaly marks a stored row whose JSON could not be decoded.
	// It never aborts a query; the row is skipped and the anomaly logged.
	ErrDecodeAnomaly = errors.New("stored event could not be decoded")
)

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Serialization(err error) error {
	return fmt.Errorf("%w: %v", ErrSerialization, err)
}

func Persistence(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrPersistence, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func DecodeAnomaly(id int64, err error) error {
	return fmt.Errorf("%w: id %d: %w", ErrDecodeAnomaly, id, err)
}

// IsClientError reports whether err is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}
