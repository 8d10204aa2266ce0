package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplaySport(t *testing.T) {
	tests := []struct {
		stravaSport string
		want        string
		supported   bool
	}{
		{"Run", "Run", true},
		{"Ride", "Bike", true},
		{"Swim", "Swim", true},
		{"Yoga", "", false},
		{"VirtualRide", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := DisplaySport(tc.stravaSport)
		assert.Equal(t, tc.supported, ok, tc.stravaSport)
		assert.Equal(t, tc.want, got, tc.stravaSport)
	}
}
