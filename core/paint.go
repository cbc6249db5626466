package core

// Paint is the semantic color class of a cell, resolved to real colors by the renderer
type Paint uint8

const (
	PaintFree      Paint = iota // Untouched passable cell
	PaintObstacle                // Blocked cell
	PaintFrontier                // Discovered or improved by A*
	PaintSettled                 // Finalized by Dijkstra
	PaintPathTrace               // Part of the reconstructed path
	PaintGoal                    // Goal reached
)

var paintNames = [...]string{
	PaintFree:      "free",
	PaintObstacle:  "obstacle",
	PaintFrontier:  "frontier",
	PaintSettled:   "settled",
	PaintPathTrace: "path",
	PaintGoal:      "goal",
}

func (p Paint) String() string {
	if int(p) < len(paintNames) {
		return paintNames[p]
	}
	return "unknown"
}
