package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration    = errors.New("invalid question configuration")
	ErrUnsupportedQuestionType = errors.New("unsupported question type")
	ErrInvalidAnswerValue      = errors.New("invalid answer value")
)

// ConfigurationError is returned when a survey, question or subtype config
// would be created in an invalid shape.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func configError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}
