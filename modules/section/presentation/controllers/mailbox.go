package controllers

import (
	"sync"

	"github.com/iota-uz/section-editor/modules/section/services"
)

type toast struct {
	message string
	kind    services.ToastType
}

// mailbox collects what a session emits towards the page (toasts and the
// redirect) until the next response picks it up.
type mailbox struct {
	mu       sync.Mutex
	toasts   []toast
	redirect string
	onLeave  func()
}

func (m *mailbox) Notify(message string, kind services.ToastType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, toast{message: message, kind: kind})
}

// NavigateTo records the target and ends the session.
func (m *mailbox) NavigateTo(path string) {
	m.mu.Lock()
	m.redirect = path
	leave := m.onLeave
	m.mu.Unlock()
	if leave != nil {
		leave()
	}
}

func (m *mailbox) bind(onLeave func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLeave = onLeave
}

func (m *mailbox) drain() ([]toast, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toasts, redirect := m.toasts, m.redirect
	m.toasts, m.redirect = nil, ""
	return toasts, redirect
}
