package ipc

import "context"

// CommandSink is implemented by the reconciler. Submit enqueues cmd onto
// the single-consumer processing queue (spec.md §5's MPSC model) and
// blocks until the reconciler has applied it, returning the query-response
// value for query-shaped commands or nil for mutation commands, which get
// no response per spec.md §6.
type CommandSink interface {
	Submit(ctx context.Context, cmd Command) (any, error)
}

// SinkHandler adapts a CommandSink to the Handler interface Server expects,
// so the control-connection goroutines never touch reconciler state
// directly — every command crosses exactly one channel hop into the
// single-owner event loop.
type SinkHandler struct {
	Sink CommandSink
}

func (h SinkHandler) HandleCommand(ctx context.Context, cmd Command) (any, error) {
	return h.Sink.Submit(ctx, cmd)
}
