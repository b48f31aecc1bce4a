package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid simple ID",
			id:      "020387",
			wantErr: false,
		},
		{
			name:    "valid complex ID",
			id:      "1604_0_1",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "020387<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with SQL injection attempt",
			id:      "020387'; DROP TABLE stops; --",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "valid ID with hyphens",
			id:      "1604-0_stop-456",
			wantErr: false,
		},
		{
			name:    "valid ID with dots",
			id:      "1604.0_stop.456",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err, "ValidateID should return error for invalid ID")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateID should not return error for valid ID")
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid simple query",
			query:   "cacilhas",
			wantErr: false,
		},
		{
			name:    "valid query with spaces",
			query:   "av dom joao",
			wantErr: false,
		},
		{
			name:    "empty query is valid",
			query:   "",
			wantErr: false,
		},
		{
			name:    "query too long",
			query:   strings.Repeat("a", 201),
			wantErr: true,
			errMsg:  "query too long (max 200 characters)",
		},
		{
			name:    "query with special characters",
			query:   "Rua D. Carlos I (Escola)",
			wantErr: false,
		},
		{
			name:    "query with script tags",
			query:   "<script>alert('xss')</script>",
			wantErr: true,
			errMsg:  "query contains invalid characters",
		},
		{
			name:    "query with SQL injection",
			query:   "'; DROP TABLE stops; --",
			wantErr: true,
			errMsg:  "query contains invalid characters",
		},
		{
			name:    "valid query with numbers",
			query:   "Linha 1604",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantErr {
				assert.Error(t, err, "ValidateQuery should return error for invalid query")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateQuery should not return error for valid query")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal input unchanged",
			input:    "normal input",
			expected: "normal input",
		},
		{
			name:     "script tags removed",
			input:    "<script>alert('xss')</script>normal",
			expected: "alert('xss')normal",
		},
		{
			name:     "html tags removed",
			input:    "<div>content</div>",
			expected: "content",
		},
		{
			name:     "multiple tags removed",
			input:    "<p><strong>bold</strong> text</p>",
			expected: "bold text",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only tags",
			input:    "<script></script><div></div>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeInput(tt.input)
			assert.Equal(t, tt.expected, result, "SanitizeInput should return expected result")
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, ValidateLimit(0))
	assert.NoError(t, ValidateLimit(MaxListLimit))
	assert.Error(t, ValidateLimit(-1))
	assert.Error(t, ValidateLimit(MaxListLimit+1))
}

func TestValidateAndSanitizeQuery(t *testing.T) {
	q, err := ValidateAndSanitizeQuery("  Cacilhas  ")
	assert.NoError(t, err)
	assert.Equal(t, "Cacilhas", q)

	_, err = ValidateAndSanitizeQuery("<b>x</b>")
	assert.Error(t, err)
}
