package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/pkg/eventbus"
)

var ErrSessionNotFound = errors.New("section session not found")

type OpenParams struct {
	TemplateID int64
	SectionID  int64
	Messages   Messages
	Notifier   Notifier
	Router     Router
}

// SessionService opens edit sessions against the sections API and keeps
// them in a registry until they navigate away or go idle.
type SessionService struct {
	repo      section.Repository
	logger    OperationLogger
	publisher eventbus.EventBus
	registry  *Registry
	log       *logrus.Logger
}

func NewSessionService(
	repo section.Repository,
	logger OperationLogger,
	publisher eventbus.EventBus,
	idleTTL time.Duration,
	log *logrus.Logger,
) *SessionService {
	if publisher == nil {
		publisher = eventbus.NewEventPublisher(log)
	}
	return &SessionService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		registry:  NewRegistry(idleTTL, log),
		log:       log,
	}
}

// Open registers a new session and loads it. The session is returned even
// when loading fails so the page can show the error and retry.
func (s *SessionService) Open(ctx context.Context, params OpenParams) (uuid.UUID, *Session, error) {
	messages := params.Messages
	sess := NewSession(SessionOptions{
		SectionID:  params.SectionID,
		TemplateID: params.TemplateID,
		Repository: s.repo,
		Logger:     s.logger,
		Notifier:   params.Notifier,
		Router:     params.Router,
		Bus:        eventbus.NewEventPublisher(s.log),
		Events:     s.publisher,
		Messages:   &messages,
	})
	id := s.registry.Add(sess)
	s.publisher.Publish(&SessionOpenedEvent{
		SessionID:  id,
		SectionID:  params.SectionID,
		TemplateID: params.TemplateID,
	})
	return id, sess, sess.Load(ctx)
}

func (s *SessionService) Get(id uuid.UUID) (*Session, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) Close(id uuid.UUID) {
	if s.registry.Remove(id) {
		s.publisher.Publish(&SessionClosedEvent{SessionID: id})
	}
}

func (s *SessionService) Count() int {
	return s.registry.Len()
}

// Run evicts idle sessions until ctx is cancelled.
func (s *SessionService) Run(ctx context.Context, interval time.Duration) {
	s.registry.Run(ctx, interval)
}
