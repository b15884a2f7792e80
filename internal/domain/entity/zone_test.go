package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZone_SpanAndContains(t *testing.T) {
	z := Zone{Start: 30, End: 40}

	require.Equal(t, 10.0, z.Span())
	require.True(t, z.Contains(30))
	require.True(t, z.Contains(40))
	require.True(t, z.Contains(35))
	require.False(t, z.Contains(29.9))
	require.False(t, z.Contains(40.1))
}

func TestThicknessAnalysis_ZoneOf(t *testing.T) {
	a := analysisWithZones(2) // 20-25 и 50-55

	require.Equal(t, 1, a.ZoneOf(22))
	require.Equal(t, 2, a.ZoneOf(50))
	require.Zero(t, a.ZoneOf(30))
	require.Zero(t, (&ThicknessAnalysis{}).ZoneOf(22))
}
