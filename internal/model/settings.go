package model

import (
	"fmt"
	"time"
)

// MaxTimeControl is the longest time per side a game can be created with.
const MaxTimeControl = 24 * time.Hour

// GameSettings are the options a player picks when creating a game.
type GameSettings struct {
	// TimeControlSeconds is the time per side. Nil keeps the server default
	// and zero plays untimed.
	TimeControlSeconds *int `json:"timeControl,omitempty"`
}

// TimeControl resolves the time per side, using fallback when none was requested.
func (s GameSettings) TimeControl(fallback time.Duration) (time.Duration, error) {
	if s.TimeControlSeconds == nil {
		return fallback, nil
	}
	seconds := *s.TimeControlSeconds
	if seconds < 0 {
		return 0, fmt.Errorf("%w: time control must not be negative", ErrInvalidSettings)
	}
	tc := time.Duration(seconds) * time.Second
	if tc > MaxTimeControl {
		return 0, fmt.Errorf("%w: time control must not exceed %v", ErrInvalidSettings, MaxTimeControl)
	}
	return tc, nil
}
