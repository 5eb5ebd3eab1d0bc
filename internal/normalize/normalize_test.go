package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AK-74", "ak74"},
		{"  Gunsmith   - Part 1 ", "gunsmith part 1"},
		{"Shoreline: Health Resort", "shoreline health resort"},
		{"Sanitar's bag, large.", "sanitars bag large"},
		{"Medstation - Level 2", "medstation level 2"},
		{"", ""},
		{"   ", ""},
		{"Tab\tand\nnewline", "tab and newline"},
		{"MixedCASE", "mixedcase"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.in), "input %q", tt.in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("AK-74", "ak74"))
	assert.True(t, Equal("Lavatory - Level 1", "lavatory level 1"))
	assert.False(t, Equal("AK", "AK-74"))
}
