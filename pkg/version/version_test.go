package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		latest    string
		want      bool
	}{
		{"minor bump", "1.2.0", "1.3.0", true},
		{"newer installed", "2.0.0", "1.9.9", false},
		{"zero padded equal", "1.0", "1.0.0", false},
		{"malformed installed treated as zero", "abc", "1.0.0", true},
		{"equal", "2.31.0", "2.31.0", false},
		{"patch bump", "1.20.0", "1.20.1", true},
		{"digit run inside component", "1.2rc1", "1.2", false},
		{"both malformed", "abc", "def", false},
		{"empty strings", "", "", false},
		{"longer latest with extra zero", "1.2", "1.2.0.0", false},
		{"longer latest with extra nonzero", "1.2", "1.2.0.1", true},
		{"double digit beats single", "1.9.9", "1.10.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutdated(tt.installed, tt.latest))
		})
	}
}

func TestIsOutdatedDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"1.2.0", "1.3.0"},
		{"abc", "1.0.0"},
		{"", "0"},
		{"3.12.1", "3.12"},
	}
	for _, p := range pairs {
		first := IsOutdated(p[0], p[1])
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, IsOutdated(p[0], p[1]))
		}
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare("1.0", "2.0"))
	assert.Equal(t, 1, Compare("2.0", "1.0"))
	assert.Equal(t, 0, Compare("1.0", "1.0.0"))
}
