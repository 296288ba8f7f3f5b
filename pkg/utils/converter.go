// Package utils provides utility functions for the supplier risk service.
// This file contains data conversion and formatting utilities.
package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts a string to an integer with default value on error
func StringToInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return val
	}
	return defaultValue
}

// LowerCamel converts an exported Go field name into the camelCase form used by JSON payloads.
func LowerCamel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
