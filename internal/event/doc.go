// Package event provides the engine's event model and the EventBus that
// carries events between the platform layer, the layer stack and
// application code.
//
// # Events
//
// An Event is a tagged value: its Type selects which payload accessor
// (Window, Key, Mouse or App) carries meaningful data. Every Type maps to
// a fixed Category bitmask, so subscribers can listen to a whole family of
// events (all mouse input, all window notifications) with one filter.
//
//	WindowClose ... WindowRestored   CategoryWindow
//	AppTick, AppUpdate, AppRender    CategoryApplication
//	KeyPressed ... KeyRepeated       CategoryKeyboard | CategoryInput
//	MouseButtonPressed/Released      CategoryMouse | CategoryMouseButton | CategoryInput
//	MouseMoved, MouseScrolled        CategoryMouse | CategoryInput
//
// # Delivery
//
// The Bus supports two delivery modes:
//
//   - Deferred: Publish enqueues the event; ProcessEvents flushes the
//     queue in FIFO order, once per frame, on the frame goroutine.
//   - Immediate: PublishNow delivers to matching subscribers before it
//     returns, on the caller's goroutine.
//
// The queue and the subscription list are guarded by separate mutexes so a
// producer goroutine can publish while another goroutine subscribes.
// Handlers never run while either lock is held, so a handler may publish,
// subscribe or unsubscribe.
//
// # Subscriptions
//
// Subscribe and SubscribeCategory return a Subscription token. The token is
// the only thing needed to remove the subscription again:
//
//	sub := bus.Subscribe(event.WindowClose, func(e *event.Event) {
//		running = false
//	})
//	defer bus.Unsubscribe(sub)
//
// Handlers that panic are recovered by the dispatch executor; the panic is
// logged and counted and delivery continues with the next subscriber.
package event
