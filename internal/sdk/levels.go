// Package sdk maps Android platform API levels and their codenames.
package sdk

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is an Android platform API level.
type Level int

// MaxKnown is the highest API level this build of droidcfg knows about.
const MaxKnown Level = 36

type codename struct {
	name  string
	level Level
}

// codenames is ordered by level; the first entry for a level is its display name.
var codenames = []codename{
	{"G", 9},
	{"I", 14},
	{"J", 16},
	{"J-MR1", 17},
	{"J-MR2", 18},
	{"K", 19},
	{"L", 21},
	{"L-MR1", 22},
	{"M", 23},
	{"N", 24},
	{"N-MR1", 25},
	{"O", 26},
	{"O-MR1", 27},
	{"P", 28},
	{"Q", 29},
	{"R", 30},
	{"S", 31},
	{"Sv2", 32},
	{"T", 33},
	{"Tiramisu", 33},
	{"U", 34},
	{"UpsideDownCake", 34},
	{"V", 35},
	{"VanillaIceCream", 35},
	{"Baklava", 36},
}

// ParseLevel parses an API level from an integer or a platform codename.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty API level")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return Level(n), nil
	}

	for _, c := range codenames {
		if strings.EqualFold(c.name, s) {
			return c.level, nil
		}
	}
	return 0, fmt.Errorf("unknown API level or codename %q", s)
}

// Codename returns the short codename for the level, or "" if it has none.
func (l Level) Codename() string {
	for _, c := range codenames {
		if c.level == l {
			return c.name
		}
	}
	return ""
}

// Valid reports whether l is within 1..MaxKnown.
func (l Level) Valid() bool {
	return l >= 1 && l <= MaxKnown
}

// String renders the level with its codename, e.g. "35 (V)".
func (l Level) String() string {
	if name := l.Codename(); name != "" {
		return fmt.Sprintf("%d (%s)", int(l), name)
	}
	return strconv.Itoa(int(l))
}

// UnmarshalText accepts either a number or a codename.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
