package scheduler

import (
	"github.com/joeycumines/logiface"
)

// loopOptions holds configuration options for EventLoop creation.
type loopOptions struct {
	logger         *logiface.Logger[logiface.Event]
	panicHandler   func(value any)
	name           string
	metricsEnabled bool
}

// LoopOption configures an EventLoop instance.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (l *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return l.applyLoopFunc(opts)
}

// WithLogger configures structured logging. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables runtime metrics collection, see EventLoop.Metrics.
func WithMetrics(enabled bool) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// WithPanicHandler sets a handler that receives the value of any panic
// raised by a scheduled action. The event loop is always disposed before the
// handler is called, and the worker goroutine exits once it returns.
//
// Without a handler, the panic is re-raised on the worker goroutine, which
// terminates the process.
func WithPanicHandler(handler func(value any)) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.panicHandler = handler
		return nil
	}}
}

// WithName sets the name used to identify the event loop in log output.
func WithName(name string) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if name == `` {
			return &ArgumentError{Name: `name`, Message: `must not be empty`}
		}
		opts.name = name
		return nil
	}}
}

// resolveLoopOptions applies LoopOption instances to loopOptions.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{
		name: `eventloop`,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
