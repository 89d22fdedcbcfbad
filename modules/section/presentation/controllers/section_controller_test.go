package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/modules/section/presentation/viewmodels"
	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/application"
	"github.com/iota-uz/section-editor/pkg/htmx"
	"github.com/iota-uz/section-editor/pkg/httpapi"
)

type mockSectionRepo struct {
	mu        sync.Mutex
	section   section.Section
	catalog   []section.Tag
	updateErr error
	updates   []section.UpdateInput
	removes   []int64
}

func (m *mockSectionRepo) GetByID(_ context.Context, id int64) (section.Section, error) {
	if id != m.section.ID {
		return section.Section{}, section.ErrNotFound
	}
	return m.section.Clone(), nil
}

func (m *mockSectionRepo) Tags(context.Context) ([]section.Tag, error) {
	return m.catalog, nil
}

func (m *mockSectionRepo) Update(_ context.Context, input section.UpdateInput) (section.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, input)
	if m.updateErr != nil {
		return section.UpdateResult{}, m.updateErr
	}
	return section.UpdateResult{Errors: map[string]string{"__typename": section.ErrorsTypename}}, nil
}

func (m *mockSectionRepo) Remove(_ context.Context, id int64) (section.RemoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes = append(m.removes, id)
	return section.RemoveResult{ID: id}, nil
}

type testEnv struct {
	repo     *mockSectionRepo
	sessions *services.SessionService
	router   *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	catalog := make([]section.Tag, 0, 11)
	for i := int64(1); i <= 11; i++ {
		catalog = append(catalog, section.Tag{ID: i, Name: fmt.Sprintf("Tag %d", i)})
	}
	repo := &mockSectionRepo{
		section: section.Section{
			ID:         123,
			TemplateID: 7,
			Name:       "Different Name",
			Tags:       []section.Tag{{ID: 2}, {ID: 5}},
		},
		catalog: catalog,
	}
	app := application.New(&application.ApplicationOptions{})
	sessions := services.NewSessionService(repo, nil, app.EventPublisher(), time.Minute, nil)
	app.RegisterServices(sessions)

	r := mux.NewRouter()
	NewSectionController(app).Register(r)
	return &testEnv{repo: repo, sessions: sessions, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) viewmodels.SectionSession {
	t.Helper()
	var vm viewmodels.SectionSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vm))
	return vm
}

func (e *testEnv) open(t *testing.T) viewmodels.SectionSession {
	t.Helper()
	w := e.do(t, http.MethodPost, "/template/7/section/123/session", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeSession(t, w)
}

func TestSectionController_OpenRendersElevenTags(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)

	require.Equal(t, "ready", vm.Phase)
	require.Equal(t, "Different Name", vm.Section.Name)
	require.Len(t, vm.Tags, 11)
	checked := []string{}
	for _, row := range vm.Tags {
		if row.Checked {
			checked = append(checked, row.ID)
		}
	}
	require.Equal(t, []string{"2", "5"}, checked)
}

func TestSectionController_OpenUnknownSection(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/template/7/section/999/session", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	vm := decodeSession(t, w)
	require.Equal(t, "loading", vm.Phase)
	require.Zero(t, env.sessions.Count())

	w = env.do(t, http.MethodGet, "/section-sessions/"+vm.SessionID, "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionController_EditAndSave(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)
	base := "/section-sessions/" + vm.SessionID

	form := url.Values{"field": {"name"}, "value": {"New Section Name"}}
	w := env.do(t, http.MethodPost, base+"/fields", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code)
	vm = decodeSession(t, w)
	require.True(t, vm.Dirty)
	require.Equal(t, "New Section Name", vm.Section.Name)
	require.NotEmpty(t, vm.Changes)

	w = env.do(t, http.MethodPost, base+"/unload", "", "")
	var unload UnloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unload))
	require.True(t, unload.Prevented)

	w = env.do(t, http.MethodPost, base+"/submit", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "/template/7", w.Header().Get(htmx.HeaderRedirect))
	require.Contains(t, w.Header().Get(htmx.HeaderTrigger), "Section updated")

	require.Len(t, env.repo.updates, 1)
	require.Equal(t, "New Section Name", env.repo.updates[0].Name)
	require.Equal(t, []int64{2, 5}, env.repo.updates[0].TagIDs)

	w = env.do(t, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionController_ValidationScrollsToErrors(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)
	base := "/section-sessions/" + vm.SessionID

	form := url.Values{"field": {"name"}, "value": {"<p>ab</p>"}}
	env.do(t, http.MethodPost, base+"/fields", form.Encode(), "application/x-www-form-urlencoded")

	w := env.do(t, http.MethodPost, base+"/submit", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get(htmx.HeaderTrigger), "scrollToErrors")
	vm = decodeSession(t, w)
	require.Equal(t, services.DefaultMessages().NameTooShort, vm.FieldErrors["name"])
	require.Empty(t, env.repo.updates)

	w = env.do(t, http.MethodGet, base, "", "")
	require.NotContains(t, w.Header().Get(htmx.HeaderTrigger), "scrollToErrors")
}

func TestSectionController_TransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.repo.updateErr = errors.New("connection refused")
	vm := env.open(t)

	w := env.do(t, http.MethodPost, "/section-sessions/"+vm.SessionID+"/submit", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	vm = decodeSession(t, w)
	require.Equal(t, []string{services.DefaultMessages().UpdateFailed}, vm.GlobalErrors)
	require.Empty(t, w.Header().Get(htmx.HeaderRedirect))
}

func TestSectionController_PatchFieldsAndToggle(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)
	base := "/section-sessions/" + vm.SessionID

	w := env.do(t, http.MethodPatch, base+"/fields",
		`[{"op":"replace","path":"/displayOrder","value":3},{"op":"replace","path":"/bestPractice","value":true}]`,
		"application/json-patch+json")
	require.Equal(t, http.StatusOK, w.Code)
	vm = decodeSession(t, w)
	require.Equal(t, 3, vm.Section.DisplayOrder)
	require.True(t, vm.Section.BestPractice)

	w = env.do(t, http.MethodPost, base+"/tags/5/toggle", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	vm = decodeSession(t, w)
	for _, row := range vm.Tags {
		require.Equal(t, row.ID == "2", row.Checked, row.ID)
	}

	w = env.do(t, http.MethodPost, base+"/tags/99/toggle", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPatch, base+"/fields", `{`, "application/json-patch+json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPatch, base+"/fields",
		`[{"op":"replace","path":"/tagIds","value":[1,2,3]}]`,
		"application/json-patch+json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = env.do(t, http.MethodGet, base, "", "")
	for _, row := range decodeSession(t, w).Tags {
		require.Equal(t, row.ID == "2", row.Checked, row.ID)
	}
}

func TestSectionController_DeleteFlow(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)
	base := "/section-sessions/" + vm.SessionID

	w := env.do(t, http.MethodPost, base+"/delete", "", "")
	require.True(t, decodeSession(t, w).DeleteDialog.Open)

	w = env.do(t, http.MethodDelete, base+"/delete", "", "")
	require.False(t, decodeSession(t, w).DeleteDialog.Open)
	require.Empty(t, env.repo.removes)

	env.do(t, http.MethodPost, base+"/delete", "", "")
	w = env.do(t, http.MethodPost, base+"/delete/confirm", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "/template/7", w.Header().Get(htmx.HeaderRedirect))
	require.False(t, decodeSession(t, w).DeleteDialog.Open)
	require.Equal(t, []int64{123}, env.repo.removes)
}

func TestSectionController_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/section-sessions/not-a-uuid", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/section-sessions/6f1c3b8e-2d7a-4c1e-9d0a-5a4b3c2d1e0f", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var env2 httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env2))
	require.Equal(t, httpapi.CodeNotFound, env2.Code)
}

func TestSectionController_Close(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)

	w := env.do(t, http.MethodDelete, "/section-sessions/"+vm.SessionID, "", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/section-sessions/"+vm.SessionID+"/submit", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionController_SearchTags(t *testing.T) {
	env := newTestEnv(t)
	vm := env.open(t)

	w := env.do(t, http.MethodGet, "/section-sessions/"+vm.SessionID+"/tags?q=tag+1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rows []viewmodels.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		require.False(t, row.Checked)
	}
	require.Equal(t, []string{"1", "10", "11"}, ids)

	w = env.do(t, http.MethodGet, "/section-sessions/"+vm.SessionID+"/tags?q=tag+5", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.True(t, rows[0].Checked)
}
