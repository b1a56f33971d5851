package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/robbyt/go-praatscript/engines/praat/objects"
	"github.com/robbyt/go-praatscript/platform/session"
)

var objectCommands = map[string]Func{
	"Read from file":    readFromFile,
	"Save as text file": saveAsTextFile,
	"Rename":            rename,
	"Remove":            removeSelected,
}

func readFromFile(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Read from file"
	if err := wantArgs(name, args, 1); err != nil {
		return session.Value{}, err
	}
	path, err := stringArg(name, args, 0)
	if err != nil {
		return session.Value{}, err
	}
	full := env.Session.ResolvePath(env.Dir, path)
	obj, objName, err := objects.Read(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return session.Value{}, fmt.Errorf("Cannot open file « %s ».", full)
	case err != nil:
		return session.Value{}, fmt.Errorf("File « %s » not recognized: %w", full, err)
	}
	return addAndSelect(env, objName, obj)
}

func saveAsTextFile(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Save as text file"
	if err := wantArgs(name, args, 1); err != nil {
		return session.Value{}, err
	}
	path, err := stringArg(name, args, 0)
	if err != nil {
		return session.Value{}, err
	}
	obj, _, err := single(env, name, "")
	if err != nil {
		return session.Value{}, err
	}
	full := env.Session.ResolvePath(env.Dir, path)
	if err := objects.Save(full, obj); err != nil {
		return session.Value{}, fmt.Errorf("Cannot write file « %s »: %w", full, err)
	}
	return session.Value{}, nil
}

func rename(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	const name = "Rename"
	if err := wantArgs(name, args, 1); err != nil {
		return session.Value{}, err
	}
	newName, err := stringArg(name, args, 0)
	if err != nil {
		return session.Value{}, err
	}
	_, h, err := single(env, name, "")
	if err != nil {
		return session.Value{}, err
	}
	if _, err := env.Session.Workspace().Rename(h.ID, newName); err != nil {
		return session.Value{}, err
	}
	return session.Value{}, nil
}

func removeSelected(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
	if err := wantArgs("Remove", args, 0); err != nil {
		return session.Value{}, err
	}
	ws := env.Session.Workspace()
	sel := ws.Selected()
	if len(sel) == 0 {
		return session.Value{}, notAvailable("Remove")
	}
	for _, h := range sel {
		if err := ws.Remove(h.ID); err != nil {
			return session.Value{}, err
		}
	}
	return session.Value{}, nil
}
