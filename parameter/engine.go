package parameter

// Driver pacing
const (
	// DefaultStepsPerFrame is engine steps per rendered frame
	DefaultStepsPerFrame = 3
	MaxStepsPerFrame     = 1000

	// DefaultFPS is the frame tick rate
	DefaultFPS = 20
	MaxFPS     = 240

	// EventQueueSize buffers terminal events between the poll goroutine and the loop
	EventQueueSize = 100
)

// DefaultAlgorithm is used when neither config nor flags choose one
const DefaultAlgorithm = "astar"

// Logging
const (
	DefaultLogDir       = "logs"
	DefaultLogVerbosity = 0
)

// HeadlessStepLimitFactor bounds headless runs at factor * cell count steps
const HeadlessStepLimitFactor = 4
