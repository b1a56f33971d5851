package commands

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/robbyt/go-praatscript/platform/session"
)

var selectionCommands = map[string]Func{
	"selectObject": selectionCommand("selectObject", (*session.Workspace).Select),
	"plusObject":   selectionCommand("plusObject", (*session.Workspace).Plus),
	"minusObject":  selectionCommand("minusObject", (*session.Workspace).Minus),
	"removeObject": selectionCommand("removeObject", func(ws *session.Workspace, ids ...int) error {
		for _, id := range ids {
			if err := ws.Remove(id); err != nil {
				return err
			}
		}
		return nil
	}),
}

func selectionCommand(name string, apply func(*session.Workspace, ...int) error) Func {
	return func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		if len(args) == 0 {
			return session.Value{}, fmt.Errorf("Command « %s » requires at least one object.", name)
		}
		ws := env.Session.Workspace()
		ids, err := resolveObjects(ws, args)
		if err != nil {
			return session.Value{}, err
		}
		if err := apply(ws, ids...); err != nil {
			return session.Value{}, err
		}
		return session.Value{}, nil
	}
}

// resolveObjects turns object references into ids. A reference is an id, a
// "Type name" string or a numeric vector of ids.
func resolveObjects(ws *session.Workspace, args []session.Value) ([]int, error) {
	var ids []int
	for _, a := range args {
		switch a.Kind() {
		case session.KindNumber:
			id, err := objectID(ws, a.Num())
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		case session.KindNumericVector:
			for _, f := range a.Nums() {
				id, err := objectID(ws, f)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
		case session.KindString:
			h, ok := ws.Lookup(a.Str())
			if !ok {
				return nil, fmt.Errorf("No object with name « %s ».", a.Str())
			}
			ids = append(ids, h.ID)
		default:
			return nil, fmt.Errorf("An object reference cannot be a %s.", a.Kind())
		}
	}
	return ids, nil
}

func objectID(ws *session.Workspace, f float64) (int, error) {
	if f != math.Trunc(f) || f < 1 {
		return 0, fmt.Errorf("No object with number %s.", session.FormatNumber(f))
	}
	id := int(f)
	if _, _, ok := ws.Get(id); !ok {
		return 0, fmt.Errorf("No object with number %d.", id)
	}
	return id, nil
}

// single returns the one selected object, which must be of class (any class
// when empty). Otherwise the command does not apply to the selection.
func single(env *Env, name, class string) (session.Object, session.Handle, error) {
	sel := env.Session.Workspace().Selected()
	if len(sel) != 1 || (class != "" && sel[0].Class != class) {
		return nil, session.Handle{}, notAvailable(name)
	}
	obj, ok := env.Session.Workspace().Resolve(sel[0])
	if !ok {
		return nil, session.Handle{}, notAvailable(name)
	}
	return obj, sel[0], nil
}

// addAndSelect puts a new object in the workspace as the only selected one and
// returns its id.
func addAndSelect(env *Env, name string, obj session.Object) (session.Value, error) {
	ws := env.Session.Workspace()
	h, err := ws.Add(name, obj)
	if err != nil {
		return session.Value{}, err
	}
	if err := ws.Select(h.ID); err != nil {
		return session.Value{}, errors.Join(err, ws.Remove(h.ID))
	}
	env.logger().Debug("object added", "object", h.String())
	return session.Number(float64(h.ID)), nil
}
