package services

import (
	"sync"

	"github.com/iota-uz/section-editor/pkg/eventbus"
)

// BeforeUnloadEvent is published on the session's bus when the operator
// tries to leave the page.
type BeforeUnloadEvent struct {
	// ReturnValue is advisory; browsers show their own text.
	ReturnValue      string
	defaultPrevented bool
}

func (e *BeforeUnloadEvent) PreventDefault() {
	e.defaultPrevented = true
}

func (e *BeforeUnloadEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// NavigationGuard vetoes unload events while there are unsaved edits.
type NavigationGuard struct {
	bus     eventbus.EventBus
	dirty   func() bool
	message string

	mu         sync.Mutex
	sub        eventbus.Subscription
	registered bool
}

func NewNavigationGuard(bus eventbus.EventBus, dirty func() bool, message string) *NavigationGuard {
	return &NavigationGuard{
		bus:     bus,
		dirty:   dirty,
		message: message,
	}
}

func (g *NavigationGuard) Register() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.registered {
		return
	}
	g.sub = g.bus.Subscribe(g.handle)
	g.registered = true
}

func (g *NavigationGuard) Deregister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.registered {
		return
	}
	g.bus.Unsubscribe(g.sub)
	g.registered = false
}

func (g *NavigationGuard) Registered() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registered
}

func (g *NavigationGuard) handle(e *BeforeUnloadEvent) {
	if e == nil || !g.dirty() {
		return
	}
	e.PreventDefault()
	e.ReturnValue = g.message
}
