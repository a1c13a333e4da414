package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldTitle(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"The Godfather", "the godfather", true},
		{"  Pulp Fiction ", "PULP FICTION", true},
		{"Straße", "STRASSE", true},
		{"Beyoncé", "BEYONCÉ", true},
		{"Alien", "Aliens", false},
		{"", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.same, FoldTitle(tt.a) == FoldTitle(tt.b))
		})
	}
}
