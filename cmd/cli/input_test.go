package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/invite-service/internal/geodesy"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    geodesy.Coordinate
		wantErr bool
	}{
		{"53.339428,-6.257664", geodesy.Dublin, false},
		{" 0 , 0 ", geodesy.Coordinate{}, false},
		{"53.3", geodesy.Coordinate{}, true},
		{"north,west", geodesy.Coordinate{}, true},
		{"91,0", geodesy.Coordinate{}, true},
		{"0,180.5", geodesy.Coordinate{}, true},
		{"NaN,0", geodesy.Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCoordinate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"invite", "compare", "distance", "serve"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
