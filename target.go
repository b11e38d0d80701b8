package schedviewer

import "context"

// Target represents a rendering output: a window, a web page, a TV.
type Target interface {
	// Update hands the target the latest frame.
	Update(ctx context.Context, frame *Frame) error

	// Close cleans up the target.
	Close() error

	// Name returns a descriptive name for logging.
	Name() string
}
