package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-01-15T14:30:00", "January 15, 2025 at 02:30 PM"},
		{"2025-01-15T14:30:00Z", "January 15, 2025 at 02:30 PM"},
		{"2025-01-15T14:30:00+08:00", "January 15, 2025 at 02:30 PM"},
		{"2025-01-15T09:05:12.123456", "January 15, 2025 at 09:05 AM"},
		{"2025-01-15 00:00:00", "January 15, 2025 at 12:00 AM"},
		{"2025-03-02", "March 02, 2025 at 12:00 AM"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDateTime(tt.input))
		})
	}
}
