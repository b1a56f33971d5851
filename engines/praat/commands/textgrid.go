package commands

import (
	"context"

	"github.com/robbyt/go-praatscript/engines/praat/objects"
	"github.com/robbyt/go-praatscript/platform/session"
)

var textGridCommands = map[string]Func{
	"Create TextGrid": createTextGrid,

	"Get start time":      textGridQuery("Get start time", 0, func(tg *objects.TextGrid, _ []int) (session.Value, error) { return session.Number(tg.Start), nil }),
	"Get end time":        textGridQuery("Get end time", 0, func(tg *objects.TextGrid, _ []int) (session.Value, error) { return session.Number(tg.End), nil }),
	"Get total duration":  textGridQuery("Get total duration", 0, func(tg *objects.TextGrid, _ []int) (session.Value, error) { return session.Number(tg.End - tg.Start), nil }),
	"Get number of tiers": textGridQuery("Get number of tiers", 0, func(tg *objects.TextGrid, _ []int) (session.Value, error) { return session.Number(float64(len(tg.Tiers))), nil }),

	"Get tier name": textGridQuery("Get tier name", 1, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		t, err := tg.Tier(n[0])
		if err != nil {
			return session.Value{}, err
		}
		return session.String(t.Name), nil
	}),
	"Is interval tier": textGridQuery("Is interval tier", 1, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		t, err := tg.Tier(n[0])
		if err != nil {
			return session.Value{}, err
		}
		return session.Bool(t.Kind == objects.IntervalTier), nil
	}),
	"Get number of intervals": textGridQuery("Get number of intervals", 1, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		count, err := tg.NumberOfIntervals(n[0])
		return session.Number(float64(count)), err
	}),
	"Get start time of interval": textGridQuery("Get start time of interval", 2, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		iv, err := tg.Interval(n[0], n[1])
		return session.Number(iv.Start), err
	}),
	"Get end time of interval": textGridQuery("Get end time of interval", 2, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		iv, err := tg.Interval(n[0], n[1])
		return session.Number(iv.End), err
	}),
	"Get label of interval": textGridQuery("Get label of interval", 2, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		iv, err := tg.Interval(n[0], n[1])
		return session.String(iv.Text), err
	}),
	"Get number of points": textGridQuery("Get number of points", 1, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		count, err := tg.NumberOfPoints(n[0])
		return session.Number(float64(count)), err
	}),
	"Get time of point": textGridQuery("Get time of point", 2, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		p, err := tg.Point(n[0], n[1])
		return session.Number(p.Time), err
	}),
	"Get label of point": textGridQuery("Get label of point", 2, func(tg *objects.TextGrid, n []int) (session.Value, error) {
		p, err := tg.Point(n[0], n[1])
		return session.String(p.Mark), err
	}),

	"Get interval at time": getIntervalAtTime,
	"Insert boundary":      insertBoundary,
	"Set interval text":    setIntervalText,
	"Insert point":         insertPoint,
	"Set point text":       setPointText,
}

func createTextGrid(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Create TextGrid"
	if err := wantArgs(name, args, 4); err != nil {
		return session.Value{}, err
	}
	start, err := numberArg(name, args, 0)
	if err != nil {
		return session.Value{}, err
	}
	end, err := numberArg(name, args, 1)
	if err != nil {
		return session.Value{}, err
	}
	all, err := stringArg(name, args, 2)
	if err != nil {
		return session.Value{}, err
	}
	points, err := stringArg(name, args, 3)
	if err != nil {
		return session.Value{}, err
	}
	tg, err := objects.NewTextGrid(start, end, objects.TierNames(all), objects.TierNames(points))
	if err != nil {
		return session.Value{}, err
	}
	return addAndSelect(env, all, tg)
}

// textGridQuery builds a command over the one selected TextGrid whose
// arguments are all whole numbers.
func textGridQuery(name string, nargs int, query func(*objects.TextGrid, []int) (session.Value, error)) Func {
	return func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		if err := wantArgs(name, args, nargs); err != nil {
			return session.Value{}, err
		}
		tg, err := selectedTextGrid(env, name)
		if err != nil {
			return session.Value{}, err
		}
		ints := make([]int, nargs)
		for i := range ints {
			if ints[i], err = intArg(name, args, i); err != nil {
				return session.Value{}, err
			}
		}
		v, err := query(tg, ints)
		if err != nil {
			return session.Value{}, err
		}
		return v, nil
	}
}

func selectedTextGrid(env *Env, name string) (*objects.TextGrid, error) {
	obj, _, err := single(env, name, objects.ClassTextGrid)
	if err != nil {
		return nil, err
	}
	tg, ok := obj.(*objects.TextGrid)
	if !ok {
		return nil, notAvailable(name)
	}
	return tg, nil
}

// tierTimeArgs reads the (tier, time) pair shared by several commands.
func tierTimeArgs(env *Env, name string, args []session.Value, n int) (*objects.TextGrid, int, float64, error) {
	if err := wantArgs(name, args, n); err != nil {
		return nil, 0, 0, err
	}
	tg, err := selectedTextGrid(env, name)
	if err != nil {
		return nil, 0, 0, err
	}
	tier, err := intArg(name, args, 0)
	if err != nil {
		return nil, 0, 0, err
	}
	time, err := numberArg(name, args, 1)
	if err != nil {
		return nil, 0, 0, err
	}
	return tg, tier, time, nil
}

func getIntervalAtTime(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	tg, tier, time, err := tierTimeArgs(env, "Get interval at time", args, 2)
	if err != nil {
		return session.Value{}, err
	}
	i, err := tg.IntervalAt(tier, time)
	if err != nil {
		return session.Value{}, err
	}
	return session.Number(float64(i)), nil
}

func insertBoundary(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	tg, tier, time, err := tierTimeArgs(env, "Insert boundary", args, 2)
	if err != nil {
		return session.Value{}, err
	}
	return session.Value{}, tg.InsertBoundary(tier, time)
}

func insertPoint(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Insert point"
	tg, tier, time, err := tierTimeArgs(env, name, args, 3)
	if err != nil {
		return session.Value{}, err
	}
	mark, err := stringArg(name, args, 2)
	if err != nil {
		return session.Value{}, err
	}
	return session.Value{}, tg.InsertPoint(tier, time, mark)
}

func setIntervalText(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Set interval text"
	tg, tier, index, text, err := tierIndexText(env, name, args)
	if err != nil {
		return session.Value{}, err
	}
	return session.Value{}, tg.SetIntervalText(tier, index, text)
}

func setPointText(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Set point text"
	tg, tier, index, text, err := tierIndexText(env, name, args)
	if err != nil {
		return session.Value{}, err
	}
	return session.Value{}, tg.SetPointText(tier, index, text)
}

func tierIndexText(env *Env, name string, args []session.Value) (*objects.TextGrid, int, int, string, error) {
	if err := wantArgs(name, args, 3); err != nil {
		return nil, 0, 0, "", err
	}
	tg, err := selectedTextGrid(env, name)
	if err != nil {
		return nil, 0, 0, "", err
	}
	tier, err := intArg(name, args, 0)
	if err != nil {
		return nil, 0, 0, "", err
	}
	index, err := intArg(name, args, 1)
	if err != nil {
		return nil, 0, 0, "", err
	}
	text, err := stringArg(name, args, 2)
	if err != nil {
		return nil, 0, 0, "", err
	}
	return tg, tier, index, text, nil
}
