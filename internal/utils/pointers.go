package utils

import (
	"strings"
)

func StringPtr(s string) *string {
	return &s
}

// TrimmedStringPtr returns nil for blank input.
func TrimmedStringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
