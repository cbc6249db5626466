package parameter

// Default palette, tcell color names or #rrggbb
const (
	ColorBackground = "black"
	ColorOpen       = "blue"
	ColorObstacle   = "red"
	ColorSource     = "fuchsia"
	ColorTarget     = "lime"
	ColorFrontier   = "aqua"
	ColorSettled    = "#00c8c8"
	ColorPath       = "#053010"
	ColorGoal       = "lime"
	ColorText       = "black"
	ColorStatus     = "#87cefa"
)

// DefaultShowLabels controls cost labels on tiles
const DefaultShowLabels = true
