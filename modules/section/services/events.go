package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/section-editor/pkg/eventbus"
)

// Events below go out on the application bus, not on a session's page bus.

type SessionOpenedEvent struct {
	SessionID  uuid.UUID
	SectionID  int64
	TemplateID int64
}

type SessionClosedEvent struct {
	SessionID uuid.UUID
}

type SectionSavedEvent struct {
	SectionID  int64
	TemplateID int64
	Name       string
	TagIDs     []int64
}

type SectionRemovedEvent struct {
	SectionID  int64
	TemplateID int64
}

// publish hands ev to the bus. Handler errors are returned when the bus
// can report them; a bus nobody listens on is fine.
func publish(bus eventbus.EventBus, ev any) error {
	if bus == nil {
		return nil
	}
	withErr, ok := bus.(eventbus.EventBusWithError)
	if !ok {
		bus.Publish(ev)
		return nil
	}
	if err := withErr.PublishE(ev); err != nil && !errors.Is(err, eventbus.ErrNoSubscribers) {
		return err
	}
	return nil
}
