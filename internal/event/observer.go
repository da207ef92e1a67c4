package event

// Observer is notified of bus activity. Implementations must be safe for
// concurrent use and must not call back into the bus.
type Observer interface {
	EventPublished(t Type, immediate bool)
	EventDelivered(t Type)
	EventDropped(t Type)
	HandlerPanicked(t Type)
	QueueDepth(n int)
}

type nopObserver struct{}

func (nopObserver) EventPublished(Type, bool) {}
func (nopObserver) EventDelivered(Type)       {}
func (nopObserver) EventDropped(Type)         {}
func (nopObserver) HandlerPanicked(Type)      {}
func (nopObserver) QueueDepth(int)            {}
