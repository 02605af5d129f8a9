package topology

import "strings"

// Level is the granularity tier of a node.
type Level string

// Levels, from coarsest to finest.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Levels lists every level in depth order.
var Levels = []Level{LevelHigh, LevelMedium, LevelLow}

// ParseLevel returns the level named by s. The second result is false when s
// does not name a level.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.TrimSpace(s)) {
	case LevelHigh:
		return LevelHigh, true
	case LevelMedium:
		return LevelMedium, true
	case LevelLow:
		return LevelLow, true
	}
	return "", false
}

// Valid reports whether l is one of the three levels.
func (l Level) Valid() bool {
	_, ok := ParseLevel(string(l))
	return ok
}

// Depth returns 0 for high, 1 for medium and 2 for low. Invalid levels
// return -1.
func (l Level) Depth() int {
	switch l {
	case LevelHigh:
		return 0
	case LevelMedium:
		return 1
	case LevelLow:
		return 2
	}
	return -1
}

// Parent returns the level one step coarser than l.
func (l Level) Parent() (Level, bool) {
	switch l {
	case LevelMedium:
		return LevelHigh, true
	case LevelLow:
		return LevelMedium, true
	}
	return "", false
}

// Child returns the level one step finer than l.
func (l Level) Child() (Level, bool) {
	switch l {
	case LevelHigh:
		return LevelMedium, true
	case LevelMedium:
		return LevelLow, true
	}
	return "", false
}
