package objects

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextGrid(t *testing.T) {
	t.Parallel()

	t.Run("empty tier lists", func(t *testing.T) {
		tg, err := NewTextGrid(0, 1, nil, nil)
		require.NoError(t, err)
		other, err := NewTextGrid(0, 1, []string{}, []string{})
		require.NoError(t, err)
		assert.True(t, tg.Equal(other))
		assert.Empty(t, tg.Tiers)
	})

	t.Run("names from a list or a string are equal", func(t *testing.T) {
		fromList, err := NewTextGrid(0, 1, []string{"a", "b", "c", "d", "e"}, []string{"b", "d", "e"})
		require.NoError(t, err)
		fromString, err := NewTextGrid(0, 1, TierNames("a b c d e"), TierNames("b d e"))
		require.NoError(t, err)
		assert.True(t, fromList.Equal(fromString))

		require.Len(t, fromList.Tiers, 5)
		assert.Equal(t, IntervalTier, fromList.Tiers[0].Kind)
		assert.Equal(t, PointTier, fromList.Tiers[1].Kind)
		assert.Equal(t, []Interval{{Start: 0, End: 1}}, fromList.Tiers[0].Intervals)
	})

	t.Run("reversed domain", func(t *testing.T) {
		tg, err := NewTextGrid(1, 0, nil, nil)
		require.Nil(t, tg)
		require.ErrorIs(t, err, ErrInvalidDomain)
		assert.Equal(t, "The end time should be greater than the start time.", err.Error())
	})

	t.Run("unknown point tier", func(t *testing.T) {
		tg, err := NewTextGrid(0, 1, []string{"a", "b"}, []string{"a", "c", "d"})
		require.Nil(t, tg)
		require.ErrorIs(t, err, ErrInvalidTier)
		assert.Equal(t, "Point tier name 'c' is not in list of all tier names.", err.Error())
	})
}

func TestTextGrid_Edits(t *testing.T) {
	t.Parallel()

	tg, err := NewTextGrid(0, 2, []string{"words", "events"}, []string{"events"})
	require.NoError(t, err)

	require.NoError(t, tg.InsertBoundary(1, 0.5))
	require.NoError(t, tg.InsertBoundary(1, 1.5))
	require.NoError(t, tg.SetIntervalText(1, 2, "hello"))

	n, err := tg.NumberOfIntervals(1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	iv, err := tg.Interval(1, 2)
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 0.5, End: 1.5, Text: "hello"}, iv)

	at, err := tg.IntervalAt(1, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 3, at)
	at, err = tg.IntervalAt(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, at)

	err = tg.InsertBoundary(1, 0.5)
	require.ErrorIs(t, err, ErrInvalidTier)
	err = tg.InsertBoundary(1, 3)
	require.ErrorIs(t, err, ErrOutOfRange)
	err = tg.InsertBoundary(2, 1)
	require.ErrorIs(t, err, ErrWrongTierKind)

	require.NoError(t, tg.InsertPoint(2, 1.2, "b"))
	require.NoError(t, tg.InsertPoint(2, 0.3, "a"))
	require.ErrorIs(t, tg.InsertPoint(2, 0.3, "again"), ErrInvalidTier)
	require.NoError(t, tg.SetPointText(2, 2, "B"))

	points, err := tg.NumberOfPoints(2)
	require.NoError(t, err)
	assert.Equal(t, 2, points)
	assert.Equal(t, []Point{{Time: 0.3, Mark: "a"}, {Time: 1.2, Mark: "B"}}, tg.Tiers[1].Points)

	_, err = tg.Tier(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, "Tier number 3 out of range (there are 2 tiers).", err.Error())
}

func TestPersist_RoundTrip(t *testing.T) {
	t.Parallel()

	tg, err := NewTextGrid(0, 1, TierNames("a b"), TierNames("b"))
	require.NoError(t, err)
	require.NoError(t, tg.InsertBoundary(1, 0.25))
	require.NoError(t, tg.SetIntervalText(1, 1, "first"))
	require.NoError(t, tg.InsertPoint(2, 0.75, "p"))

	path := filepath.Join(t.TempDir(), "my grid.yaml")
	require.NoError(t, Save(path, tg))

	obj, name, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "my_grid", name)

	read, ok := obj.(*TextGrid)
	require.True(t, ok)
	assert.True(t, tg.Equal(read))
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"no class", "xmin: 0\n", ErrDecode},
		{"unknown class", "objectClass: Sound\n", ErrUnknownClass},
		{"unknown field", "objectClass: TextGrid\nxmin: 0\nxmax: 1\ncolour: red\n", ErrDecode},
		{"reversed domain", "objectClass: TextGrid\nxmin: 1\nxmax: 0\n", ErrInvalidDomain},
		{
			"gap between intervals",
			"objectClass: TextGrid\nxmin: 0\nxmax: 1\ntiers:\n  - class: IntervalTier\n    name: a\n    intervals:\n      - {xmin: 0, xmax: 0.4, text: ''}\n      - {xmin: 0.5, xmax: 1, text: ''}\n",
			ErrInvalidTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Decode(strings.NewReader(tt.body))
			require.Nil(t, obj)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
