package services

import (
	"strings"

	"soravault/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	default:
		return limit
	}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return models.Invalid(field, "is required")
	}
	return nil
}

func nonNegative(field string, v *float64) error {
	if v != nil && *v < 0 {
		return models.Invalid(field, "must not be negative")
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
