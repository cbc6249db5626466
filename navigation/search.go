// Package navigation implements the incremental search engines.
//
// Both engines are explicit state machines driven by an external Step call.
// A step never blocks; it mutates the shared grid nodes and returns the
// visual effects a renderer should apply.
package navigation

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/core"
)

// ErrNoPath is returned when the predecessor chain does not reach the source
var ErrNoPath = errors.New("no path")

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unrecognized names
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm selects a search engine
type Algorithm uint8

const (
	AlgoAStar Algorithm = iota
	AlgoDijkstra
)

func (a Algorithm) String() string {
	switch a {
	case AlgoAStar:
		return "astar"
	case AlgoDijkstra:
		return "dijkstra"
	}
	return "unknown"
}

// Other returns the opposite algorithm
func (a Algorithm) Other() Algorithm {
	if a == AlgoAStar {
		return AlgoDijkstra
	}
	return AlgoAStar
}

// ParseAlgorithm resolves a case-insensitive algorithm name
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "astar", "a*", "a-star":
		return AlgoAStar, nil
	case "dijkstra":
		return AlgoDijkstra, nil
	}
	return 0, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

// Phase is the engine state machine position
type Phase uint8

const (
	PhaseSearching Phase = iota // Expanding the frontier
	PhaseUnwinding              // Path found, emitting it one cell per step
	PhaseDone                   // Terminal, further steps are no-ops
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseUnwinding:
		return "unwinding"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Outcome summarizes the result of a run so far
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeFound
	OutcomeNoPath
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeFound:
		return "found"
	case OutcomeNoPath:
		return "no path"
	}
	return "unknown"
}

// Effect is a visual update for one cell; empty Label leaves the text unchanged
type Effect struct {
	Pos   core.Point
	Paint core.Paint
	Label string
}

// StepResult is returned by every Step call
type StepResult struct {
	Phase   Phase // Phase after the step
	Effects []Effect
}

// Stats exposes run counters for status display
type Stats struct {
	Steps    int // Step calls that did work
	Frontier int // Open set size (A*) or unsettled count (Dijkstra)
	Settled  int // Closed node count
	PathLen  int // Reconstructed path length, -1 until found
}

// Searcher is the common driver-facing contract of both engines
type Searcher interface {
	Algorithm() Algorithm
	Step() StepResult
	Phase() Phase
	Outcome() Outcome
	// Terminal reports that no further step can change state
	Terminal() bool
	Stats() Stats
	// Path returns the reconstructed path, start excluded and goal included
	Path() []core.Point
}
