// Package params holds the generation parameters the user can tune between requests.
package params

import (
	"fmt"
	"math"
	"sync"
)

// Bounds enforced by the control surface.
const (
	MinMaxLength   = 1
	MaxMaxLength   = 2048
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinTopP        = 0.0
	MaxTopP        = 1.0

	maxLengthStep   = 64
	temperatureStep = 0.1
	topPStep        = 0.05
)

// Snapshot is an immutable capture of the generation parameters at request time.
type Snapshot struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Param identifies one tunable parameter.
type Param int

const (
	MaxLength Param = iota
	Temperature
	TopP
)

func (p Param) String() string {
	switch p {
	case MaxLength:
		return "Max length"
	case Temperature:
		return "Temperature"
	case TopP:
		return "Top-p"
	default:
		return "unknown"
	}
}

// Next cycles to the following parameter.
func (p Param) Next() Param {
	return (p + 1) % 3
}

// Store holds the current generation parameters. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	maxLength   int
	temperature float64
	topP        float64
}

// NewStore creates a Store seeded with the given defaults, clamped into range.
func NewStore(defaults Snapshot) *Store {
	s := &Store{}
	s.SetMaxLength(defaults.MaxLength)
	s.SetTemperature(defaults.Temperature)
	s.SetTopP(defaults.TopP)
	return s
}

// SetMaxLength sets the response length cap.
func (s *Store) SetMaxLength(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLength = min(max(v, MinMaxLength), MaxMaxLength)
}

// SetTemperature sets the sampling temperature.
func (s *Store) SetTemperature(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = clamp(v, MinTemperature, MaxTemperature)
}

// SetTopP sets the nucleus-sampling threshold.
func (s *Store) SetTopP(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topP = clamp(v, MinTopP, MaxTopP)
}

// Step nudges one parameter up (direction > 0) or down (direction < 0) by its step size.
func (s *Store) Step(p Param, direction int) {
	if direction == 0 {
		return
	}
	sign := 1
	if direction < 0 {
		sign = -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch p {
	case MaxLength:
		s.maxLength = min(max(s.maxLength+sign*maxLengthStep, MinMaxLength), MaxMaxLength)
	case Temperature:
		s.temperature = clamp(round2(s.temperature+float64(sign)*temperatureStep), MinTemperature, MaxTemperature)
	case TopP:
		s.topP = clamp(round2(s.topP+float64(sign)*topPStep), MinTopP, MaxTopP)
	}
}

// Snapshot returns the current values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		MaxLength:   s.maxLength,
		Temperature: s.temperature,
		TopP:        s.topP,
	}
}

// Display renders the current values the way the parameter panel shows them.
func (s *Store) Display() string {
	return s.Snapshot().String()
}

func (p Snapshot) String() string {
	return fmt.Sprintf("%s %d · %s %.2f · %s %.2f",
		MaxLength, p.MaxLength, Temperature, p.Temperature, TopP, p.TopP)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// round2 keeps repeated steps from accumulating float drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
