package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedSpeed is returned for a multiplier outside Speeds.
var ErrUnsupportedSpeed = errors.New("unsupported playback speed")

// Speed is a playback-rate multiplier.
type Speed float64

// Speeds is the fixed set of selectable multipliers, in menu order.
var Speeds = []Speed{1, 1.25, 1.5, 2}

// Valid reports whether s is one of Speeds.
func (s Speed) Valid() bool {
	for _, v := range Speeds {
		if v == s {
			return true
		}
	}
	return false
}

// Next returns the following speed in menu order, wrapping to the first.
func (s Speed) Next() Speed {
	for i, v := range Speeds {
		if v == s {
			return Speeds[(i+1)%len(Speeds)]
		}
	}
	return Speeds[0]
}

func (s Speed) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "x"
}

// ParseSpeed accepts "1.5" or "1.5x".
func ParseSpeed(v string) (Speed, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(v)), "x")
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse speed %q: %w", v, err)
	}
	s := Speed(f)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSpeed, v)
	}
	return s, nil
}
