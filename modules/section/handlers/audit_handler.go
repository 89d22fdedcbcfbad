package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/application"
)

// AuditEventsHandler writes an audit line for every change a session
// commits to the sections API.
type AuditEventsHandler struct {
	logger *logrus.Logger
}

func RegisterAuditEventHandlers(app application.Application) {
	handler := &AuditEventsHandler{logger: app.Logger()}
	app.EventPublisher().Subscribe(handler.onSessionOpened)
	app.EventPublisher().Subscribe(handler.onSessionClosed)
	app.EventPublisher().Subscribe(handler.onSectionSaved)
	app.EventPublisher().Subscribe(handler.onSectionRemoved)
}

func (h *AuditEventsHandler) onSessionOpened(event *services.SessionOpenedEvent) {
	h.logger.WithFields(logrus.Fields{
		"session_id":  event.SessionID.String(),
		"section_id":  event.SectionID,
		"template_id": event.TemplateID,
	}).Debug("section session opened")
}

func (h *AuditEventsHandler) onSessionClosed(event *services.SessionClosedEvent) {
	h.logger.WithField("session_id", event.SessionID.String()).Debug("section session closed")
}

func (h *AuditEventsHandler) onSectionSaved(event *services.SectionSavedEvent) error {
	h.logger.WithFields(logrus.Fields{
		"section_id":  event.SectionID,
		"template_id": event.TemplateID,
		"name":        event.Name,
		"tag_ids":     event.TagIDs,
	}).Info("section updated")
	return nil
}

func (h *AuditEventsHandler) onSectionRemoved(event *services.SectionRemovedEvent) error {
	h.logger.WithFields(logrus.Fields{
		"section_id":  event.SectionID,
		"template_id": event.TemplateID,
	}).Info("section removed")
	return nil
}
