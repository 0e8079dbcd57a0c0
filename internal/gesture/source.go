package gesture

import "context"

// Source is a tracker that pushes Metrics whenever it has a new result.
// Sources are constructed explicitly and owned by whoever runs the render
// loop; Start returns once the source is running and emit is then called
// from the source's own goroutine until ctx is done or Stop is called.
type Source interface {
	Name() string
	Start(ctx context.Context, emit func(Metrics)) error
	Stop()
}
