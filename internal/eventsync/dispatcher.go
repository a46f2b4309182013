package eventsync

// Indicator reflects the outcome of the most recent delivery activity,
// mirroring the connection dot on the original ward board.
type Indicator string

const (
	IndicatorPending Indicator = "pending"
	IndicatorOK      Indicator = "ok"
	IndicatorFailed  Indicator = "failed"
)

// Dispatcher accepts completed-transition events for forwarding. It must
// not block the caller, and delivery outcome must never affect the local
// transition's success.
type Dispatcher interface {
	Dispatch(Event)
}

// Noop returns a dispatcher that drops every event, used when sync is
// disabled in configuration.
func Noop() Dispatcher {
	return noopDispatcher{}
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(Event) {}
