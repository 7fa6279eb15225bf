package dto

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrRequired           = errors.New("is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTooLong            = errors.New("is too long")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError maps request fields to what is wrong with them.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field string, err error) {
	if err == nil {
		return
	}
	if _, exists := f[field]; !exists {
		f[field] = err.Error()
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func ValidateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired
	}
	return nil
}

func ValidateMaxLen(value string, max int) error {
	if len([]rune(value)) > max {
		return fmt.Errorf("%w (max %d)", ErrTooLong, max)
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrRequired
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}
