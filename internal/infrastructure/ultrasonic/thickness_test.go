package ultrasonic

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"glulam-ndt/internal/domain/entity"
)

func samples(pairs ...[2]float64) []entity.Sample {
	out := make([]entity.Sample, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, entity.Sample{Position: p[0], TOF: p[1]})
	}
	return out
}

func TestDetectZones_InsufficientData(t *testing.T) {
	a := NewAnalyzer()

	_, err := a.DetectZones(samples([2]float64{20, 130}, [2]float64{40, 131}), entity.Beam12ft)
	require.True(t, errors.Is(err, entity.ErrInsufficientData))

	withInvalid := samples([2]float64{20, 130}, [2]float64{40, 131}, [2]float64{60, math.NaN()})
	_, err = a.DetectZones(withInvalid, entity.Beam12ft)
	require.True(t, errors.Is(err, entity.ErrInsufficientData))

	_, err = a.DetectZones(nil, entity.Beam8ft)
	require.True(t, errors.Is(err, entity.ErrInsufficientData))
}

func TestDetectZones_InsufficientInteriorData(t *testing.T) {
	a := NewAnalyzer()

	// Границы отступа не входят во внутреннюю часть.
	edge := samples([2]float64{5, 120}, [2]float64{10, 130}, [2]float64{40, 131}, [2]float64{86, 129}, [2]float64{90, 128})
	_, err := a.DetectZones(edge, entity.Beam8ft)
	require.True(t, errors.Is(err, entity.ErrInsufficientInteriorData))
	require.False(t, errors.Is(err, entity.ErrInsufficientData))

	// Та же выборка на длинной балке: 86 и 90 уже внутри.
	result, err := a.DetectZones(edge, entity.Beam12ft)
	require.NoError(t, err)
	require.False(t, result.HasDelamination)
}

func TestDetectZones_SevereZone(t *testing.T) {
	a := NewAnalyzer()
	in := samples(
		[2]float64{5, 120},
		[2]float64{20, 130},
		[2]float64{30, 172},
		[2]float64{40, 175},
		[2]float64{50, 128},
		[2]float64{130, 131},
	)

	result, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)

	require.InDelta(t, 147.2, result.Mean, 1e-9)
	require.InDelta(t, math.Sqrt(462.96), result.StdDev, 1e-9)
	require.Equal(t, entity.DefaultThresholds(), result.Thresholds)
	require.True(t, result.HasDelamination)
	require.Len(t, result.Zones, 1)

	z := result.Zones[0]
	require.Equal(t, 30.0, z.Start)
	require.Equal(t, 40.0, z.End)
	require.Equal(t, samples([2]float64{30, 172}, [2]float64{40, 175}), z.Points)
	require.Equal(t, 172.0, z.MinTOF)
	require.Equal(t, 175.0, z.MaxTOF)
	require.Equal(t, 173.5, z.AvgTOF)
	require.Equal(t, entity.SeveritySevere, z.Severity)
	require.Equal(t, entity.ConfidenceHigh, z.Confidence)
	require.True(t, z.NeedsMoreData)
	require.NotNil(t, z.SuggestedInterval)
	require.Equal(t, 2.0, *z.SuggestedInterval)
	require.InDelta(t, 173.5/147.2, z.ElevationRatio, 1e-12)
}

func TestDetectZones_NoElevation(t *testing.T) {
	a := NewAnalyzer()

	result, err := a.DetectZones(samples([2]float64{20, 130}, [2]float64{40, 131}, [2]float64{60, 129}), entity.Beam12ft)
	require.NoError(t, err)
	require.False(t, result.HasDelamination)
	require.Empty(t, result.Zones)
	require.InDelta(t, 130.0, result.Mean, 1e-9)
}

func TestDetectZones_SplitsOnGap(t *testing.T) {
	a := NewAnalyzer()
	in := samples(
		[2]float64{20, 130},
		[2]float64{30, 160},
		[2]float64{50, 158}, // разрыв ровно 20 дюймов ещё объединяется
		[2]float64{75, 175}, // разрыв 25 дюймов открывает новую зону
		[2]float64{100, 131},
		[2]float64{110, 129},
		[2]float64{120, 130},
	)

	result, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)
	require.Len(t, result.Zones, 2)

	first, second := result.Zones[0], result.Zones[1]
	require.Equal(t, 30.0, first.Start)
	require.Equal(t, 50.0, first.End)
	require.Len(t, first.Points, 2)
	require.Equal(t, entity.SeverityModerate, first.Severity)
	require.Equal(t, entity.ConfidenceHigh, first.Confidence)
	require.True(t, first.NeedsMoreData)

	require.Equal(t, 75.0, second.Start)
	require.Equal(t, 75.0, second.End)
	require.Equal(t, entity.SeveritySevere, second.Severity)
	require.False(t, second.NeedsMoreData)
	require.Nil(t, second.SuggestedInterval)
}

func TestDetectZones_NonElevatedSampleClosesZone(t *testing.T) {
	a := NewAnalyzer()
	in := samples(
		[2]float64{20, 160},
		[2]float64{25, 130},
		[2]float64{30, 162},
		[2]float64{60, 131},
		[2]float64{80, 129},
	)

	result, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)
	require.Len(t, result.Zones, 2)
	require.Equal(t, 20.0, result.Zones[0].End)
	require.Equal(t, 30.0, result.Zones[1].Start)
}

func TestDetectZones_SkipsEdgeSamples(t *testing.T) {
	a := NewAnalyzer()
	in := samples(
		[2]float64{5, 200}, // у торца, зону не открывает
		[2]float64{20, 130},
		[2]float64{40, 131},
		[2]float64{60, 129},
		[2]float64{120, 160},
		[2]float64{130, 165},
		[2]float64{138, 100}, // у торца, зону не закрывает и не продлевает
	)

	result, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)
	require.InDelta(t, 143.0, result.Mean, 1e-9)
	require.Len(t, result.Zones, 1)

	z := result.Zones[0]
	require.Equal(t, 120.0, z.Start)
	require.Equal(t, 130.0, z.End)
	require.Len(t, z.Points, 2)
	require.Equal(t, entity.SeverityModerate, z.Severity)
}

func TestDetectZones_MildAndPossible(t *testing.T) {
	a := NewAnalyzer()

	mild, err := a.DetectZones(samples(
		[2]float64{20, 130},
		[2]float64{30, 142},
		[2]float64{35, 145},
		[2]float64{40, 130},
		[2]float64{60, 131},
		[2]float64{80, 129},
	), entity.Beam12ft)
	require.NoError(t, err)
	require.Len(t, mild.Zones, 1)
	require.Equal(t, entity.SeverityMild, mild.Zones[0].Severity)
	require.Equal(t, entity.ConfidenceMedium, mild.Zones[0].Confidence)
	require.Equal(t, 143.5, mild.Zones[0].AvgTOF)
	require.False(t, mild.Zones[0].NeedsMoreData)

	// Превышение только над средним, абсолютный порог не достигнут.
	possible, err := a.DetectZones(samples(
		[2]float64{20, 100},
		[2]float64{30, 100},
		[2]float64{40, 100},
		[2]float64{50, 115},
		[2]float64{60, 100},
	), entity.Beam8ft)
	require.NoError(t, err)
	require.InDelta(t, 103.0, possible.Mean, 1e-9)
	require.Len(t, possible.Zones, 1)
	require.Equal(t, entity.SeverityPossible, possible.Zones[0].Severity)
	require.Equal(t, entity.ConfidenceLow, possible.Zones[0].Confidence)
	require.InDelta(t, 115.0/103.0, possible.Zones[0].ElevationRatio, 1e-12)
}

func TestDetectZones_NeedsMoreDataForWideSparseZone(t *testing.T) {
	a := NewAnalyzer()

	sparse, err := a.DetectZones(samples(
		[2]float64{20, 160},
		[2]float64{38, 160},
		[2]float64{56, 160},
		[2]float64{80, 100},
		[2]float64{100, 100},
		[2]float64{120, 100},
	), entity.Beam12ft)
	require.NoError(t, err)
	require.Len(t, sparse.Zones, 1)
	require.Equal(t, 36.0, sparse.Zones[0].Span())
	require.True(t, sparse.Zones[0].NeedsMoreData)

	dense, err := a.DetectZones(samples(
		[2]float64{20, 160},
		[2]float64{30, 160},
		[2]float64{40, 160},
		[2]float64{50, 160},
		[2]float64{60, 160},
		[2]float64{70, 160},
		[2]float64{90, 100},
		[2]float64{110, 100},
		[2]float64{130, 100},
	), entity.Beam12ft)
	require.NoError(t, err)
	require.Len(t, dense.Zones, 1)
	require.Len(t, dense.Zones[0].Points, 6)
	require.False(t, dense.Zones[0].NeedsMoreData)
}

func TestDetectZones_UnsortedInputIsNotMutated(t *testing.T) {
	a := NewAnalyzer()
	in := samples(
		[2]float64{130, 131},
		[2]float64{50, 128},
		[2]float64{40, 175},
		[2]float64{30, 172},
		[2]float64{20, 130},
		[2]float64{5, 120},
	)
	before := append([]entity.Sample(nil), in...)

	result, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)
	require.Equal(t, before, in)
	require.Len(t, result.Zones, 1)
	require.Equal(t, 30.0, result.Zones[0].Start)
	require.Equal(t, 40.0, result.Zones[0].End)
}

func TestDetectZones_Idempotent(t *testing.T) {
	a := NewAnalyzer()
	rng := rand.New(rand.NewSource(7))
	in := randomSamples(rng, 40, entity.Beam12ft)

	first, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)
	second, err := a.DetectZones(in, entity.Beam12ft)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated analysis differs (-first +second):\n%s", diff)
	}
}

func TestDetectZones_ZoneInvariants(t *testing.T) {
	a := NewAnalyzer()
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		beam := entity.Beam8ft
		if run%2 == 0 {
			beam = entity.Beam12ft
		}
		in := randomSamples(rng, 5+rng.Intn(40), beam)

		result, err := a.DetectZones(in, beam)
		if errors.Is(err, entity.ErrInsufficientInteriorData) {
			continue
		}
		require.NoError(t, err)
		require.Equal(t, len(result.Zones) > 0, result.HasDelamination)

		for i, z := range result.Zones {
			require.NotEmpty(t, z.Points)
			require.LessOrEqual(t, z.Start, z.End)
			require.LessOrEqual(t, z.MinTOF, z.AvgTOF)
			require.LessOrEqual(t, z.AvgTOF, z.MaxTOF)
			require.Equal(t, z.Points[0].Position, z.Start)
			require.Equal(t, z.Points[len(z.Points)-1].Position, z.End)
			for j := 1; j < len(z.Points); j++ {
				require.LessOrEqual(t, z.Points[j-1].Position, z.Points[j].Position)
				require.LessOrEqual(t, z.Points[j].Position-z.Points[j-1].Position, entity.ZoneMergeGapInches)
			}
			if i > 0 {
				require.Less(t, result.Zones[i-1].End, z.Start)
			}
		}
	}
}

func TestDetectZones_RaisingTOFKeepsSampleElevated(t *testing.T) {
	a := NewAnalyzer()
	rng := rand.New(rand.NewSource(3))

	for run := 0; run < 200; run++ {
		in := randomSamples(rng, 10+rng.Intn(20), entity.Beam12ft)
		idx := rng.Intn(len(in))
		target := in[idx].Position

		before, err := a.DetectZones(in, entity.Beam12ft)
		if errors.Is(err, entity.ErrInsufficientInteriorData) {
			continue
		}
		require.NoError(t, err)
		if !inAnyZone(before.Zones, target) {
			continue
		}

		raised := append([]entity.Sample(nil), in...)
		raised[idx].TOF += rng.Float64() * 50
		after, err := a.DetectZones(raised, entity.Beam12ft)
		require.NoError(t, err)
		require.True(t, inAnyZone(after.Zones, target), "sample at %.1f lost elevation", target)
	}
}

// randomSamples генерирует измерения с различными позициями.
func randomSamples(rng *rand.Rand, n int, beam entity.BeamLength) []entity.Sample {
	positions := rng.Perm(int(beam.Inches()))
	out := make([]entity.Sample, 0, n)
	for i := 0; i < n && i < len(positions); i++ {
		out = append(out, entity.Sample{
			Position: float64(positions[i]),
			TOF:      110 + rng.Float64()*80,
		})
	}
	return out
}

func inAnyZone(zones []entity.Zone, position float64) bool {
	for _, z := range zones {
		for _, p := range z.Points {
			if p.Position == position {
				return true
			}
		}
	}
	return false
}
