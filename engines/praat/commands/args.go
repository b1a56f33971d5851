package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/robbyt/go-praatscript/platform/session"
)

func wantArgs(name string, args []session.Value, n int) error {
	if len(args) == n {
		return nil
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Errorf("Command « %s » requires %d argument%s, not %d.", name, n, plural, len(args))
}

func numberArg(name string, args []session.Value, i int) (float64, error) {
	v := args[i]
	if v.Kind() != session.KindNumber {
		return 0, fmt.Errorf("Argument %d of « %s » should be a number, not a %s.", i+1, name, v.Kind())
	}
	return v.Num(), nil
}

func intArg(name string, args []session.Value, i int) (int, error) {
	f, err := numberArg(name, args, i)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("Argument %d of « %s » should be a whole number, not %s.", i+1, name, session.FormatNumber(f))
	}
	return int(f), nil
}

func stringArg(name string, args []session.Value, i int) (string, error) {
	v := args[i]
	if v.Kind() != session.KindString {
		return "", fmt.Errorf("Argument %d of « %s » should be a string, not a %s.", i+1, name, v.Kind())
	}
	return v.Str(), nil
}

// joinText concatenates the text of every argument, as the info commands and
// exitScript do.
func joinText(args []session.Value) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.Text())
	}
	return b.String()
}
