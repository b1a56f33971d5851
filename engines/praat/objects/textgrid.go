// Package objects holds the typed objects scripts create, query and save.
package objects

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

const ClassTextGrid = "TextGrid"

// TierKind tells interval tiers from point tiers.
type TierKind int

const (
	IntervalTier TierKind = iota
	PointTier
)

func (k TierKind) String() string {
	if k == PointTier {
		return "TextTier"
	}
	return "IntervalTier"
}

type Interval struct {
	Start float64
	End   float64
	Text  string
}

type Point struct {
	Time float64
	Mark string
}

// Tier is one named annotation layer. Interval tiers always cover the whole
// time domain of their TextGrid without gaps; point tiers are kept sorted.
type Tier struct {
	Name      string
	Kind      TierKind
	Intervals []Interval
	Points    []Point
}

// TextGrid is a set of annotation tiers over a time domain.
type TextGrid struct {
	Start float64
	End   float64
	Tiers []*Tier
}

// NewTextGrid creates a TextGrid whose interval tiers hold a single empty
// interval. pointTiers must be a subset of tierNames.
func NewTextGrid(start, end float64, tierNames, pointTiers []string) (*TextGrid, error) {
	if !(end > start) {
		return nil, newError(ErrInvalidDomain, "The end time should be greater than the start time.")
	}
	for _, p := range pointTiers {
		if !slices.Contains(tierNames, p) {
			return nil, newError(ErrInvalidTier, "Point tier name '%s' is not in list of all tier names.", p)
		}
	}
	tg := &TextGrid{Start: start, End: end, Tiers: make([]*Tier, 0, len(tierNames))}
	for _, name := range tierNames {
		if slices.Contains(pointTiers, name) {
			tg.Tiers = append(tg.Tiers, &Tier{Name: name, Kind: PointTier})
			continue
		}
		tg.Tiers = append(tg.Tiers, &Tier{
			Name:      name,
			Kind:      IntervalTier,
			Intervals: []Interval{{Start: start, End: end}},
		})
	}
	return tg, nil
}

// TierNames splits a space-separated tier list the way "Create TextGrid"
// accepts it.
func TierNames(list string) []string {
	return strings.Fields(list)
}

func (tg *TextGrid) ClassName() string { return ClassTextGrid }

// Equal compares time domains and tier contents.
func (tg *TextGrid) Equal(o *TextGrid) bool {
	if tg == nil || o == nil {
		return tg == o
	}
	if tg.Start != o.Start || tg.End != o.End || len(tg.Tiers) != len(o.Tiers) {
		return false
	}
	for i, t := range tg.Tiers {
		u := o.Tiers[i]
		if t.Name != u.Name || t.Kind != u.Kind ||
			!slices.Equal(t.Intervals, u.Intervals) || !slices.Equal(t.Points, u.Points) {
			return false
		}
	}
	return true
}

// Tier returns the 1-based tier n.
func (tg *TextGrid) Tier(n int) (*Tier, error) {
	if n < 1 || n > len(tg.Tiers) {
		return nil, newError(ErrOutOfRange, "Tier number %d out of range (there are %d tiers).", n, len(tg.Tiers))
	}
	return tg.Tiers[n-1], nil
}

func (tg *TextGrid) intervalTier(n int) (*Tier, error) {
	t, err := tg.Tier(n)
	if err != nil {
		return nil, err
	}
	if t.Kind != IntervalTier {
		return nil, newError(ErrWrongTierKind, "Tier %d is not an interval tier.", n)
	}
	return t, nil
}

func (tg *TextGrid) pointTier(n int) (*Tier, error) {
	t, err := tg.Tier(n)
	if err != nil {
		return nil, err
	}
	if t.Kind != PointTier {
		return nil, newError(ErrWrongTierKind, "Tier %d is not a point tier.", n)
	}
	return t, nil
}

// Interval returns the 1-based interval i of interval tier n.
func (tg *TextGrid) Interval(n, i int) (Interval, error) {
	t, err := tg.intervalTier(n)
	if err != nil {
		return Interval{}, err
	}
	if i < 1 || i > len(t.Intervals) {
		return Interval{}, newError(ErrOutOfRange, "Interval number %d out of range (tier %d has %d intervals).", i, n, len(t.Intervals))
	}
	return t.Intervals[i-1], nil
}

// Point returns the 1-based point i of point tier n.
func (tg *TextGrid) Point(n, i int) (Point, error) {
	t, err := tg.pointTier(n)
	if err != nil {
		return Point{}, err
	}
	if i < 1 || i > len(t.Points) {
		return Point{}, newError(ErrOutOfRange, "Point number %d out of range (tier %d has %d points).", i, n, len(t.Points))
	}
	return t.Points[i-1], nil
}

// NumberOfIntervals counts the intervals of interval tier n.
func (tg *TextGrid) NumberOfIntervals(n int) (int, error) {
	t, err := tg.intervalTier(n)
	if err != nil {
		return 0, err
	}
	return len(t.Intervals), nil
}

// NumberOfPoints counts the points of point tier n.
func (tg *TextGrid) NumberOfPoints(n int) (int, error) {
	t, err := tg.pointTier(n)
	if err != nil {
		return 0, err
	}
	return len(t.Points), nil
}

// IntervalAt returns the 1-based index of the interval containing time.
// A time on a boundary belongs to the interval that starts there.
func (tg *TextGrid) IntervalAt(n int, time float64) (int, error) {
	t, err := tg.intervalTier(n)
	if err != nil {
		return 0, err
	}
	if time < tg.Start || time > tg.End {
		return 0, nil
	}
	for i, iv := range t.Intervals {
		if time >= iv.Start && (time < iv.End || i == len(t.Intervals)-1) {
			return i + 1, nil
		}
	}
	return 0, nil
}

// InsertBoundary splits the interval of tier n that contains time. The left
// part keeps the text.
func (tg *TextGrid) InsertBoundary(n int, time float64) error {
	t, err := tg.intervalTier(n)
	if err != nil {
		return err
	}
	if time <= tg.Start || time >= tg.End || math.IsNaN(time) {
		return newError(ErrOutOfRange, "Cannot add a boundary at %s seconds, because this is outside the time domain of the intervals.", formatTime(time))
	}
	for i, iv := range t.Intervals {
		if time == iv.Start {
			return newError(ErrInvalidTier, "Cannot add a boundary at %s seconds, because there is already a boundary there.", formatTime(time))
		}
		if time > iv.Start && time < iv.End {
			left := Interval{Start: iv.Start, End: time, Text: iv.Text}
			right := Interval{Start: time, End: iv.End}
			t.Intervals = slices.Replace(t.Intervals, i, i+1, left, right)
			return nil
		}
	}
	return newError(ErrInvalidTier, "Cannot add a boundary at %s seconds.", formatTime(time))
}

// SetIntervalText replaces the text of interval i of tier n.
func (tg *TextGrid) SetIntervalText(n, i int, text string) error {
	if _, err := tg.Interval(n, i); err != nil {
		return err
	}
	tg.Tiers[n-1].Intervals[i-1].Text = text
	return nil
}

// InsertPoint adds a point to point tier n, keeping the tier sorted.
func (tg *TextGrid) InsertPoint(n int, time float64, mark string) error {
	t, err := tg.pointTier(n)
	if err != nil {
		return err
	}
	if time < tg.Start || time > tg.End || math.IsNaN(time) {
		return newError(ErrOutOfRange, "Cannot add a point at %s seconds, because this is outside the time domain.", formatTime(time))
	}
	at, found := slices.BinarySearchFunc(t.Points, time, func(p Point, x float64) int {
		switch {
		case p.Time < x:
			return -1
		case p.Time > x:
			return 1
		}
		return 0
	})
	if found {
		return newError(ErrInvalidTier, "Cannot add a point at %s seconds, because there is already a point there.", formatTime(time))
	}
	t.Points = slices.Insert(t.Points, at, Point{Time: time, Mark: mark})
	return nil
}

// SetPointText replaces the mark of point i of tier n.
func (tg *TextGrid) SetPointText(n, i int, mark string) error {
	if _, err := tg.Point(n, i); err != nil {
		return err
	}
	tg.Tiers[n-1].Points[i-1].Mark = mark
	return nil
}

func formatTime(f float64) string {
	return fmt.Sprintf("%g", f)
}
