package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailSyntaxValid(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"  jane@example.com  ", true},
		{"", false},
		{"jane", false},
		{"jane@localhost", false},
		{"Jane <jane@example.com>", false},
		{"@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmailSyntaxValid(tt.email))
		})
	}
}
