package commands

import (
	"context"

	"github.com/robbyt/go-praatscript/platform/session"
)

var infoCommands = map[string]Func{
	"writeInfo": func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		env.Session.Info().Write(joinText(args))
		return session.Value{}, nil
	},
	"writeInfoLine": func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		env.Session.Info().Write(joinText(args) + "\n")
		return session.Value{}, nil
	},
	"appendInfo": func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		env.Session.Info().Append(joinText(args))
		return session.Value{}, nil
	},
	"appendInfoLine": func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		env.Session.Info().Append(joinText(args) + "\n")
		return session.Value{}, nil
	},
	"clearinfo": func(_ context.Context, env *Env, args []session.Value) (session.Value, error) {
		if err := wantArgs("clearinfo", args, 0); err != nil {
			return session.Value{}, err
		}
		env.Session.Info().Clear()
		return session.Value{}, nil
	},
	"exitScript": func(_ context.Context, _ *Env, args []session.Value) (session.Value, error) {
		return session.Value{}, &Exit{Message: joinText(args)}
	},
}
