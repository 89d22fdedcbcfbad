package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

var ErrNotRemoved = errors.New("remove returned no section id")

type DeleteResult int

const (
	DeleteIgnored DeleteResult = iota
	DeleteFailed
	DeleteRemoved
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteIgnored:
		return "ignored"
	case DeleteFailed:
		return "failed"
	case DeleteRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// OpenDelete shows the confirmation dialog. It leaves the edit state alone.
func (s *Session) OpenDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if s.operation != OperationNone {
		return ErrBusy
	}
	s.dialog.Open = true
	return nil
}

// CancelDelete closes the dialog without calling the API. It is refused
// while a confirmed delete is in flight.
func (s *Session) CancelDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.dialog.InFlight {
		return ErrBusy
	}
	s.dialog.Open = false
	return nil
}

// ConfirmDelete removes the section. The dialog is closed afterwards
// whatever the outcome.
func (s *Session) ConfirmDelete(ctx context.Context) DeleteResult {
	s.mu.Lock()
	if s.closed || !s.dialog.Open || s.dialog.InFlight || s.phase() != PhaseReady {
		s.mu.Unlock()
		return DeleteIgnored
	}
	s.dialog.InFlight = true
	s.operation = OperationDeleting
	id, path := s.sectionID, s.resourcePath()
	s.mu.Unlock()

	started := time.Now()
	res, err := s.repo.Remove(ctx, id)
	if err == nil && res.ID == 0 {
		err = fmt.Errorf("%w: %d", ErrNotRemoved, id)
	}
	s.metrics.observeRemote(OpRemoveSection, started, err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return DeleteIgnored
	}
	s.operation = OperationNone
	s.dialog = DeleteDialog{}

	if err != nil {
		s.appendGlobalError(s.messages.DeleteFailed)
		s.mu.Unlock()
		s.logger.LogOperation(logrus.ErrorLevel, OpRemoveSection, err, path)
		s.metrics.deletesTotal.WithLabelValues(DeleteFailed.String()).Inc()
		return DeleteFailed
	}

	s.redirecting = true
	templateID := s.templateID
	target := section.TemplatePath(templateID)
	s.mu.Unlock()
	s.metrics.deletesTotal.WithLabelValues(DeleteRemoved.String()).Inc()
	s.emit(OpRemoveSection, path, &SectionRemovedEvent{SectionID: id, TemplateID: templateID})
	s.notifier.Notify(s.messages.Removed, ToastSuccess)
	s.router.NavigateTo(target)
	return DeleteRemoved
}
