// Package uictl defines read-only controls that let UI components poll
// live values owned by other goroutines.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// Levels is a control that can read a window of recent levels.
type Levels[N Number] interface {
	Read() []N
}
