package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoversFromSegments(t *testing.T) {
	tests := []struct {
		segments int
		want     int
		wantErr  bool
	}{
		{segments: 1, want: 0},
		{segments: 2, want: 1},
		{segments: 4, want: 3},
		{segments: 0, wantErr: true},
		{segments: -2, wantErr: true},
	}

	for _, tt := range tests {
		got, err := LayoversFromSegments(tt.segments)
		if tt.wantErr {
			assert.Error(t, err, "segments=%d", tt.segments)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSearchWindow(t *testing.T) {
	start := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)

	w := NewSearchWindow(start, 180)

	assert.Equal(t, "19/10/2026", w.DateFrom())
	assert.Equal(t, "17/04/2027", w.DateTo())
}
