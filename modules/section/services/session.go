package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/pkg/eventbus"
)

var (
	ErrSessionClosed = errors.New("section session is closed")
	ErrNotReady      = errors.New("section session is not ready")
	ErrBusy          = errors.New("section session has an operation in flight")
	ErrUnknownTag    = errors.New("tag is not in the catalog")
)

type SessionOptions struct {
	SectionID  int64
	TemplateID int64

	Repository section.Repository
	Logger     OperationLogger
	Notifier   Notifier
	Router     Router
	// Bus carries the page signals. A private bus is created when nil.
	Bus eventbus.EventBus
	// Events receives SectionSavedEvent and SectionRemovedEvent. Optional.
	Events   eventbus.EventBus
	Messages *Messages
	// Now is used for idle tracking.
	Now func() time.Time
}

// Session is one operator's edit-or-delete interaction with one section.
// All methods are safe for concurrent use; remote calls run without the
// session lock held.
type Session struct {
	repo     section.Repository
	logger   OperationLogger
	notifier Notifier
	router   Router
	bus      eventbus.EventBus
	events   eventbus.EventBus
	messages Messages
	validate *FieldValidator
	guard    *NavigationGuard
	metrics  *metrics
	now      func() time.Time

	mu           sync.Mutex
	sectionID    int64
	templateID   int64
	snapshot     section.Section
	store        *WorkingCopyStore
	tags         *TagSelection
	loaded       bool
	redirecting  bool
	operation    Operation
	fieldErrors  FieldErrors
	globalErrors []string
	errorsRev    uint64
	dialog       DeleteDialog
	closed       bool
	lastActive   time.Time
}

// NewSession builds a session in the loading phase and registers its
// navigation guard.
func NewSession(opts SessionOptions) *Session {
	messages := DefaultMessages()
	if opts.Messages != nil {
		messages = *opts.Messages
	}
	s := &Session{
		repo:        opts.Repository,
		logger:      opts.Logger,
		notifier:    opts.Notifier,
		router:      opts.Router,
		bus:         opts.Bus,
		events:      opts.Events,
		messages:    messages,
		validate:    NewFieldValidator(messages),
		metrics:     getMetrics(),
		now:         opts.Now,
		sectionID:   opts.SectionID,
		templateID:  opts.TemplateID,
		fieldErrors: NewFieldErrors(),
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.router == nil {
		s.router = nopRouter{}
	}
	if s.bus == nil {
		s.bus = eventbus.NewEventPublisher(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.store = NewWorkingCopyStore()
	s.tags = NewTagSelection(s.store)
	s.lastActive = s.now()
	s.guard = NewNavigationGuard(s.bus, s.Dirty, messages.UnsavedChanges)
	s.guard.Register()
	return s
}

// Load fetches the snapshot and the tag catalog concurrently and seeds the
// working copy from them. The session stays in the loading phase when
// either call fails.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.operation != OperationNone || s.redirecting {
		s.mu.Unlock()
		return ErrBusy
	}
	id, path := s.sectionID, s.resourcePath()
	s.mu.Unlock()

	var (
		snapshot section.Section
		catalog  []section.Tag
		failedOp string
		opMu     sync.Mutex
	)
	fail := func(op string, err error) error {
		opMu.Lock()
		if failedOp == "" {
			failedOp = op
		}
		opMu.Unlock()
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		var err error
		snapshot, err = s.repo.GetByID(gctx, id)
		s.metrics.observeRemote(OpGetSection, started, err)
		if err != nil {
			return fail(OpGetSection, fmt.Errorf("load section %d: %w", id, err))
		}
		return nil
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		catalog, err = s.repo.Tags(gctx)
		s.metrics.observeRemote(OpGetTags, started, err)
		if err != nil {
			return fail(OpGetTags, fmt.Errorf("load tag catalog: %w", err))
		}
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err != nil {
		s.setGlobalErrors(s.messages.LoadFailed)
		s.mu.Unlock()
		s.logger.LogOperation(logrus.ErrorLevel, failedOp, err, path)
		return err
	}
	s.snapshot = snapshot.Clone()
	if snapshot.TemplateID != 0 {
		s.templateID = snapshot.TemplateID
	}
	s.store.Load(snapshot)
	s.tags.Seed(snapshot.Tags, catalog)
	s.fieldErrors = NewFieldErrors()
	s.globalErrors = nil
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Change merges p into the working copy.
func (s *Session) Change(p section.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.store.Change(p)
	return nil
}

// ChangeField applies a raw form value to one field.
func (s *Session) ChangeField(field, raw string) error {
	f, err := section.ParseField(field)
	if err != nil {
		return err
	}
	p, err := section.PatchFor(f, raw)
	if err != nil {
		return err
	}
	return s.Change(p)
}

// ToggleTag flips the catalog tag with the given id.
func (s *Session) ToggleTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	tag, ok := s.tags.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTag, id)
	}
	s.tags.Toggle(tag)
	return nil
}

// SearchTags filters the loaded catalog by name. Selection is unaffected.
func (s *Session) SearchTags(q string) []section.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags.Search(q)
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Dirty()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SectionID:      s.sectionID,
		TemplateID:     s.templateID,
		Phase:          s.phase(),
		Operation:      s.operation,
		Snapshot:       s.snapshot.Clone(),
		WorkingCopy:    s.store.Value(),
		Dirty:          s.store.Dirty(),
		Catalog:        s.tags.Catalog(),
		SelectedTags:   s.tags.Selected(),
		FieldErrors:    s.fieldErrors.Clone(),
		GlobalErrors:   append([]string(nil), s.globalErrors...),
		DeleteDialog:   s.dialog,
		ErrorsRevision: s.errorsRev,
	}
}

// DispatchUnload publishes a beforeunload signal and returns the event so
// the caller can see whether it was vetoed.
func (s *Session) DispatchUnload() *BeforeUnloadEvent {
	ev := &BeforeUnloadEvent{}
	s.bus.Publish(ev)
	return ev
}

// Close tears the session down. Responses of calls still in flight are
// dropped once it returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.guard.Deregister()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// ResourcePath is the edit page of the section.
func (s *Session) ResourcePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resourcePath()
}

func (s *Session) emit(operation, path string, ev any) {
	if err := publish(s.events, ev); err != nil {
		s.logger.LogOperation(logrus.WarnLevel, operation, err, path)
	}
}

func (s *Session) resourcePath() string {
	return section.EditPath(s.templateID, s.sectionID)
}

func (s *Session) phase() Phase {
	switch {
	case s.redirecting:
		return PhaseRedirecting
	case !s.loaded:
		return PhaseLoading
	case s.operation == OperationSaving:
		return PhaseSubmitting
	case s.operation == OperationDeleting:
		return PhaseDeleting
	default:
		return PhaseReady
	}
}

func (s *Session) editable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if p := s.phase(); p == PhaseLoading || p == PhaseRedirecting {
		return ErrNotReady
	}
	return nil
}

// setGlobalErrors replaces the banner messages; a non-empty list asks the
// page to scroll to them.
func (s *Session) setGlobalErrors(msgs ...string) {
	s.globalErrors = append([]string(nil), msgs...)
	if len(s.globalErrors) > 0 {
		s.errorsRev++
	}
}

func (s *Session) appendGlobalError(msg string) {
	s.setGlobalErrors(append(s.globalErrors, msg)...)
}
