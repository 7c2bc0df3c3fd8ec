package botkit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseJSON decodes command arguments given as a JSON object.
func ParseJSON[T any](src string) (T, error) {
	var args T

	if err := json.Unmarshal([]byte(src), &args); err != nil {
		return *(new(T)), fmt.Errorf("arguments must be a JSON object: %w", err)
	}

	return args, nil
}

// Args is the whitespace separated argument list of a command.
type Args []string

func SplitArgs(src string) Args {
	return strings.Fields(src)
}

func (a Args) String(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	return a[i]
}

// Int64 parses the i-th argument as a positive id.
func (a Args) Int64(i int) (int64, error) {
	s := a.String(i)
	if s == "" {
		return 0, fmt.Errorf("argument %d is missing", i+1)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return n, nil
}

// Rest joins the arguments from i on.
func (a Args) Rest(i int) string {
	if i >= len(a) {
		return ""
	}
	return strings.Join(a[i:], " ")
}
