package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidConfiguration = errors.New("invalid competition configuration")
)

// ConfigurationError aborts a recalculation before anything is written.
type ConfigurationError struct {
	CompetitionID uuid.UUID
	Reason        string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: competition %s: %s", ErrInvalidConfiguration, e.CompetitionID, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func configError(id uuid.UUID, format string, args ...interface{}) error {
	return &ConfigurationError{CompetitionID: id, Reason: fmt.Sprintf(format, args...)}
}
