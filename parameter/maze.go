package parameter

// Maze generation defaults
const (
	MazeDefaultWidth  = 41
	MazeDefaultHeight = 21
	MazeDefaultBraid  = 0.1
)
