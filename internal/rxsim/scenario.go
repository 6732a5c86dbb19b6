package rxsim

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/go-reactive/rx"
	"github.com/joeycumines/go-reactive/rxtest"
	"github.com/joeycumines/go-reactive/virtualtime"
	"github.com/joeycumines/logiface"
	"gopkg.in/yaml.v3"
)

type (
	// Scenario describes a single marble test: a recorded source, an
	// optional operator applied to it, and the instants used by the harness.
	Scenario struct {
		Created    int64    `yaml:"created"`
		Subscribed int64    `yaml:"subscribed"`
		Disposed   int64    `yaml:"disposed"`
		Source     Source   `yaml:"source"`
		Operator   Operator `yaml:"operator,omitempty"`
	}

	Source struct {
		// Kind is either hot (absolute message times) or cold (message
		// times relative to each subscription).
		Kind     string    `yaml:"kind"`
		Messages []Message `yaml:"messages"`
	}

	// Message is a recorded notification, exactly one of Next, Error, or
	// Completed must be set.
	Message struct {
		Time      int64   `yaml:"time"`
		Next      *int    `yaml:"next,omitempty"`
		Error     *string `yaml:"error,omitempty"`
		Completed bool    `yaml:"completed,omitempty"`
	}

	Operator struct {
		// Name is one of none (the default), single, or single-where.
		Name      string     `yaml:"name,omitempty"`
		Predicate *Predicate `yaml:"predicate,omitempty"`
	}

	Predicate struct {
		// Op is one of eq, ne, lt, le, gt, ge, odd, or even.
		Op    string `yaml:"op"`
		Value int    `yaml:"value,omitempty"`
	}

	// Result is the outcome of running a Scenario.
	Result struct {
		Messages      []rxtest.Recorded[int]
		Subscriptions []rxtest.Subscription
		Clock         int64
	}

	recordingObservable interface {
		rx.Observable[int]
		Subscriptions() []rxtest.Subscription
	}
)

const (
	kindHot  = `hot`
	kindCold = `cold`

	operatorNone        = `none`
	operatorSingle      = `single`
	operatorSingleWhere = `single-where`
)

var errInvalidScenario = errors.New(`rxsim: invalid scenario`)

// DefaultScenario returns a Scenario using the harness defaults, with an
// empty hot source.
func DefaultScenario() Scenario {
	return Scenario{
		Created:    rxtest.Created,
		Subscribed: rxtest.Subscribed,
		Disposed:   rxtest.Disposed,
		Source:     Source{Kind: kindHot},
	}
}

// LoadScenario decodes and validates a YAML scenario. Unknown fields are
// rejected, and omitted instants use the harness defaults.
func LoadScenario(r io.Reader) (*Scenario, error) {
	x := DefaultScenario()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&x); err != nil {
		return nil, fmt.Errorf(`rxsim: decode scenario: %w`, err)
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	return &x, nil
}

// ReadScenario loads the scenario file at path.
func ReadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScenario(f)
}

// Validate reports the first problem with the scenario, if any, as an error
// wrapping errInvalidScenario.
func (x *Scenario) Validate() error {
	if x.Created < 0 || x.Created > x.Subscribed || x.Subscribed > x.Disposed {
		return invalidf(`instants must satisfy 0 <= created <= subscribed <= disposed, got %d, %d, %d`, x.Created, x.Subscribed, x.Disposed)
	}

	switch x.Source.Kind {
	case kindHot, kindCold:
	default:
		return invalidf(`unknown source kind %q`, x.Source.Kind)
	}
	for i, m := range x.Source.Messages {
		if m.Time < 0 {
			return invalidf(`message %d: negative time %d`, i, m.Time)
		}
		var set int
		if m.Next != nil {
			set++
		}
		if m.Error != nil {
			set++
		}
		if m.Completed {
			set++
		}
		if set != 1 {
			return invalidf(`message %d: exactly one of next, error, or completed must be set`, i)
		}
	}

	switch x.Operator.Name {
	case ``, operatorNone, operatorSingle:
		if x.Operator.Predicate != nil {
			return invalidf(`operator %q does not accept a predicate`, x.Operator.Name)
		}
	case operatorSingleWhere:
		if x.Operator.Predicate == nil {
			return invalidf(`operator %q requires a predicate`, x.Operator.Name)
		}
		if _, err := x.Operator.Predicate.compile(); err != nil {
			return err
		}
	default:
		return invalidf(`unknown operator %q`, x.Operator.Name)
	}

	return nil
}

// Run executes the scenario on a fresh virtual-time scheduler. The logger
// may be nil.
func (x *Scenario) Run(logger *logiface.Logger[logiface.Event]) (*Result, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}

	s := rxtest.NewTestScheduler(virtualtime.WithLogger(logger))

	messages := x.Source.recorded()
	var source recordingObservable
	if x.Source.Kind == kindHot {
		source = rxtest.CreateHotObservable(s, messages...)
	} else {
		source = rxtest.CreateColdObservable(s, messages...)
	}

	operator, err := x.Operator.compile()
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str(`source`, x.Source.Kind).
		Int(`messages`, len(messages)).
		Str(`operator`, x.Operator.String()).
		Log(`running scenario`)

	observer := rxtest.StartWith(s, func() rx.Observable[int] { return operator(source) }, x.Created, x.Subscribed, x.Disposed)

	return &Result{
		Messages:      observer.Messages(),
		Subscriptions: source.Subscriptions(),
		Clock:         s.Clock(),
	}, nil
}

func (x Source) recorded() []rxtest.Recorded[int] {
	messages := make([]rxtest.Recorded[int], 0, len(x.Messages))
	for _, m := range x.Messages {
		switch {
		case m.Next != nil:
			messages = append(messages, rxtest.OnNext(m.Time, *m.Next))
		case m.Error != nil:
			messages = append(messages, rxtest.OnError[int](m.Time, errors.New(*m.Error)))
		default:
			messages = append(messages, rxtest.OnCompleted[int](m.Time))
		}
	}
	return messages
}

func (x Operator) String() string {
	if x.Name == `` {
		return operatorNone
	}
	return x.Name
}

func (x Operator) compile() (func(rx.Observable[int]) rx.Observable[int], error) {
	switch x.Name {
	case ``, operatorNone:
		return func(source rx.Observable[int]) rx.Observable[int] { return source }, nil
	case operatorSingle:
		return rx.Single[int], nil
	case operatorSingleWhere:
		predicate, err := x.Predicate.compile()
		if err != nil {
			return nil, err
		}
		return func(source rx.Observable[int]) rx.Observable[int] {
			return rx.SingleWhere(source, predicate)
		}, nil
	default:
		return nil, invalidf(`unknown operator %q`, x.Name)
	}
}

func (x *Predicate) compile() (func(int) (bool, error), error) {
	value := x.Value
	var fn func(int) bool
	switch x.Op {
	case `eq`:
		fn = func(v int) bool { return v == value }
	case `ne`:
		fn = func(v int) bool { return v != value }
	case `lt`:
		fn = func(v int) bool { return v < value }
	case `le`:
		fn = func(v int) bool { return v <= value }
	case `gt`:
		fn = func(v int) bool { return v > value }
	case `ge`:
		fn = func(v int) bool { return v >= value }
	case `odd`:
		fn = func(v int) bool { return v%2 != 0 }
	case `even`:
		fn = func(v int) bool { return v%2 == 0 }
	default:
		return nil, invalidf(`unknown predicate op %q`, x.Op)
	}
	return func(v int) (bool, error) { return fn(v), nil }, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf(`%w: %s`, errInvalidScenario, fmt.Sprintf(format, args...))
}
