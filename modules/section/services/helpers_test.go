package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

type mockSectionRepo struct {
	mu sync.Mutex

	section section.Section
	catalog []section.Tag
	getErr  error
	tagsErr error

	updateResult section.UpdateResult
	updateErr    error
	removeResult section.RemoveResult
	removeErr    error

	// gate, when set, blocks mutations until it is closed; started receives
	// one value per mutation that reached the repo.
	gate    chan struct{}
	started chan struct{}

	updateInputs []section.UpdateInput
	removeIDs    []int64
}

func (m *mockSectionRepo) GetByID(_ context.Context, id int64) (section.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return section.Section{}, m.getErr
	}
	if m.section.ID != id {
		return section.Section{}, fmt.Errorf("%w: %d", section.ErrNotFound, id)
	}
	return m.section.Clone(), nil
}

func (m *mockSectionRepo) Tags(context.Context) ([]section.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	return append([]section.Tag(nil), m.catalog...), nil
}

func (m *mockSectionRepo) Update(_ context.Context, input section.UpdateInput) (section.UpdateResult, error) {
	m.mu.Lock()
	m.updateInputs = append(m.updateInputs, input)
	m.mu.Unlock()
	m.wait()
	return m.updateResult, m.updateErr
}

func (m *mockSectionRepo) Remove(_ context.Context, id int64) (section.RemoveResult, error) {
	m.mu.Lock()
	m.removeIDs = append(m.removeIDs, id)
	m.mu.Unlock()
	m.wait()
	return m.removeResult, m.removeErr
}

func (m *mockSectionRepo) wait() {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
}

func (m *mockSectionRepo) block() {
	m.gate = make(chan struct{})
	m.started = make(chan struct{}, 8)
}

func (m *mockSectionRepo) updateCalls() []section.UpdateInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]section.UpdateInput(nil), m.updateInputs...)
}

func (m *mockSectionRepo) removeCalls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.removeIDs...)
}

type loggedOperation struct {
	level     logrus.Level
	operation string
	err       error
	path      string
}

type mockLogger struct {
	mu      sync.Mutex
	entries []loggedOperation
}

func (l *mockLogger) LogOperation(level logrus.Level, operation string, err error, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, loggedOperation{level: level, operation: operation, err: err, path: path})
}

func (l *mockLogger) calls() []loggedOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]loggedOperation(nil), l.entries...)
}

type toast struct {
	message string
	kind    ToastType
}

type mockNotifier struct {
	mu     sync.Mutex
	toasts []toast
}

func (n *mockNotifier) Notify(message string, kind ToastType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{message: message, kind: kind})
}

func (n *mockNotifier) calls() []toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]toast(nil), n.toasts...)
}

type mockRouter struct {
	mu    sync.Mutex
	paths []string
}

func (r *mockRouter) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *mockRouter) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type fixture struct {
	repo     *mockSectionRepo
	logger   *mockLogger
	notifier *mockNotifier
	router   *mockRouter
	session  *Session
}

const (
	testTemplateID int64 = 7
	testSectionID  int64 = 123
)

func testSnapshot() section.Section {
	return section.Section{
		ID:           testSectionID,
		TemplateID:   testTemplateID,
		Name:         "Different Name",
		Introduction: "<p>Intro</p>",
		Requirements: "<p>Requirements</p>",
		Guidance:     "<p>Guidance</p>",
		DisplayOrder: 1,
		BestPractice: true,
		Tags: []section.Tag{
			{ID: 2, Name: "Tag 2", Description: "Description 2"},
			{ID: 5, Name: "Tag 5", Description: "Description 5"},
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: &mockSectionRepo{
			section: testSnapshot(),
			catalog: catalogOf(11),
			updateResult: section.UpdateResult{
				Errors: map[string]string{"__typename": section.ErrorsTypename},
			},
			removeResult: section.RemoveResult{ID: testSectionID},
		},
		logger:   &mockLogger{},
		notifier: &mockNotifier{},
		router:   &mockRouter{},
	}
	f.session = NewSession(SessionOptions{
		SectionID:  testSectionID,
		TemplateID: testTemplateID,
		Repository: f.repo,
		Logger:     f.logger,
		Notifier:   f.notifier,
		Router:     f.router,
	})
	t.Cleanup(f.session.Close)
	return f
}

func newLoadedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))
	return f
}
