// Package eventbus dispatches page signals (unload, visibility, ...) to the
// handlers registered for them. Handlers are plain funcs; a handler receives
// an event when its parameter list matches the published arguments.
package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// Subscription identifies one registered handler.
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler reflect.Value
}

type EventBus interface {
	Publish(args ...any)
	Subscribe(handler any) Subscription
	Unsubscribe(sub Subscription)
	Clear()
	SubscribersCount() int
}

type EventBusWithError interface {
	EventBus
	PublishE(args ...any) error
}

var (
	ErrNoSubscribers        = errors.New("eventbus: no matching subscribers")
	ErrInvalidHandlerReturn = errors.New("eventbus: invalid handler return signature")
)

type publisherImpl struct {
	log *logrus.Logger

	mu          sync.RWMutex
	nextID      Subscription
	subscribers []subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

func MatchSignature(handler any, args []any) bool {
	return matchType(reflect.TypeOf(handler), args)
}

func matchType(t reflect.Type, args []any) bool {
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}

	for i, arg := range args {
		paramType := t.In(i)

		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}

		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}
	return true
}

// matching returns the handlers accepting args. Handlers run outside the
// lock so they may subscribe or unsubscribe.
func (p *publisherImpl) matching(args []any) []subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]subscriber, 0, len(p.subscribers))
	for _, s := range p.subscribers {
		if matchType(s.handler.Type(), args) {
			out = append(out, s)
		}
	}
	return out
}

func values(args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(reflect.TypeOf((*any)(nil)).Elem())
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

func (p *publisherImpl) Publish(args ...any) {
	handled := false
	for _, s := range p.matching(args) {
		in := fitArgs(s.handler.Type(), args)
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.Errorf("eventbus: handler %s panicked with args %v: %v", s.handler.Type(), args, r)
				}
			}()
			s.handler.Call(in)
			handled = true
		}()
	}

	if !handled && p.log != nil {
		p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", args)
	}
}

func (p *publisherImpl) PublishE(args ...any) error {
	subs := p.matching(args)
	if len(subs) == 0 {
		return ErrNoSubscribers
	}

	errorType := reflect.TypeOf((*error)(nil)).Elem()
	var errs []error
	for _, s := range subs {
		in := fitArgs(s.handler.Type(), args)
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("eventbus: handler %s panicked: %v", s.handler.Type(), r))
				}
			}()

			out := s.handler.Call(in)
			switch {
			case len(out) == 0:
			case len(out) != 1:
				errs = append(errs, fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, s.handler.Type(), len(out)))
			case out[0].Type() != errorType:
				errs = append(errs, fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, s.handler.Type(), out[0].Type()))
			case !out[0].IsNil():
				errs = append(errs, out[0].Interface().(error))
			}
		}()
	}
	return errors.Join(errs...)
}

// fitArgs converts nil arguments to the zero value of the parameter type so
// reflect.Call accepts them.
func fitArgs(t reflect.Type, args []any) []reflect.Value {
	in := values(args)
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(t.In(i))
		}
	}
	return in
}

func (p *publisherImpl) Subscribe(handler any) Subscription {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.subscribers = append(p.subscribers, subscriber{id: p.nextID, handler: v})
	return p.nextID
}

func (p *publisherImpl) Unsubscribe(sub Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subscribers {
		if s.id == sub {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}
