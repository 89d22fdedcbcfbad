package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/pkg/markup"
)

type SubmitResult int

const (
	// SubmitIgnored means the submit was a no-op: the session was busy,
	// not ready or already closed.
	SubmitIgnored SubmitResult = iota
	SubmitInvalid
	SubmitRejected
	SubmitFailed
	SubmitSaved
)

func (r SubmitResult) String() string {
	switch r {
	case SubmitIgnored:
		return "ignored"
	case SubmitInvalid:
		return "invalid"
	case SubmitRejected:
		return "rejected"
	case SubmitFailed:
		return "failed"
	case SubmitSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Submit validates the working copy and sends it to the update operation.
// Failures end up in the session's field and global errors; Submit never
// returns them.
func (s *Session) Submit(ctx context.Context) SubmitResult {
	s.mu.Lock()
	if s.closed || s.phase() != PhaseReady {
		s.mu.Unlock()
		return SubmitIgnored
	}

	s.fieldErrors = NewFieldErrors()
	s.setGlobalErrors()

	wc := s.store.Value()
	if errs := s.validate.ValidateAll(wc); errs.HasAny() {
		s.fieldErrors = errs
		s.setGlobalErrors(errs.Messages()...)
		s.mu.Unlock()
		s.metrics.savesTotal.WithLabelValues(SubmitInvalid.String()).Inc()
		return SubmitInvalid
	}

	input := section.UpdateInput{
		ID:           s.sectionID,
		Name:         markup.Strip(wc.Name),
		Introduction: wc.Introduction,
		Requirements: wc.Requirements,
		Guidance:     wc.Guidance,
		DisplayOrder: wc.DisplayOrder,
		BestPractice: wc.BestPractice,
		TagIDs:       s.tags.IDs(),
	}
	s.operation = OperationSaving
	path := s.resourcePath()
	s.mu.Unlock()

	started := time.Now()
	res, err := s.repo.Update(ctx, input)
	s.metrics.observeRemote(OpUpdateSection, started, err)
	outcome := ClassifyUpdate(res, err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SubmitIgnored
	}
	s.operation = OperationNone

	switch outcome.Kind {
	case OutcomeTransportError:
		s.appendGlobalError(s.messages.UpdateFailed)
		s.mu.Unlock()
		s.logger.LogOperation(logrus.ErrorLevel, OpUpdateSection, outcome.Err, path)
		s.metrics.savesTotal.WithLabelValues(SubmitFailed.String()).Inc()
		return SubmitFailed

	case OutcomeFieldErrors:
		s.fieldErrors = outcome.FieldErrors
		general := outcome.General
		if general == "" {
			general = s.messages.UpdateFailed
		}
		s.appendGlobalError(general)
		s.mu.Unlock()
		s.metrics.savesTotal.WithLabelValues(SubmitRejected.String()).Inc()
		return SubmitRejected

	default:
		s.store.MarkSaved()
		s.redirecting = true
		templateID := s.templateID
		target := section.TemplatePath(templateID)
		s.mu.Unlock()
		s.metrics.savesTotal.WithLabelValues(SubmitSaved.String()).Inc()
		s.emit(OpUpdateSection, path, &SectionSavedEvent{
			SectionID:  input.ID,
			TemplateID: templateID,
			Name:       input.Name,
			TagIDs:     input.TagIDs,
		})
		s.notifier.Notify(s.messages.Updated, ToastSuccess)
		s.router.NavigateTo(target)
		return SubmitSaved
	}
}
