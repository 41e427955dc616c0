package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"asc", "ASC"},
		{"ASC", "ASC"},
		{" Asc ", "ASC"},
		{"desc", "DESC"},
		{"DESC", "DESC"},
		{"", "DESC"},
		{"sideways", "DESC"},
		{"asc; DROP TABLE products", "DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field passes", "name", "name"},
		{"empty falls back to default", "", "created_at"},
		{"unknown falls back to default", "password_hash", "created_at"},
		{"injection falls back to default", "name; DROP TABLE products", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}
