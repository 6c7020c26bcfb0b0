package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxChecker(t *testing.T) {
	c := NewSyntaxChecker()

	tests := []struct {
		address string
		want    bool
	}{
		{"doc@direct.example.com", true},
		{"first.last@hospital.example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Check(tt.address), "address %q", tt.address)
	}
}
