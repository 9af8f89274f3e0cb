package risk

import (
	"errors"
	"fmt"
)

const (
	MinAge     = 1
	MaxAge     = 110
	MinGlucose = 70
	MaxGlucose = 400
)

var (
	ErrAgeOutOfRange     = errors.New("age out of range")
	ErrGlucoseOutOfRange = errors.New("glucose out of range")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func Validate(rec VitalsRecord) error {
	if rec.Age < MinAge || rec.Age > MaxAge {
		return ValidationError{reason: fmt.Errorf("age %d not in [%d,%d]: %w", rec.Age, MinAge, MaxAge, ErrAgeOutOfRange)}
	}
	if rec.Glucose < MinGlucose || rec.Glucose > MaxGlucose {
		return ValidationError{reason: fmt.Errorf("glucose %d not in [%d,%d]: %w", rec.Glucose, MinGlucose, MaxGlucose, ErrGlucoseOutOfRange)}
	}
	return nil
}
