package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/form"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/modules/section/presentation/mappers"
	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/application"
	"github.com/iota-uz/section-editor/pkg/htmx"
	"github.com/iota-uz/section-editor/pkg/httpapi"
	"github.com/iota-uz/section-editor/pkg/intl"
	"github.com/iota-uz/section-editor/pkg/middleware"
)

const maxPatchBody = 1 << 20

type FieldChangeDTO struct {
	Field string `form:"field"`
	Value string `form:"value"`
}

type UnloadResponse struct {
	Prevented   bool   `json:"prevented"`
	ReturnValue string `json:"returnValue,omitempty"`
}

type openSession struct {
	session  *services.Session
	mailbox  *mailbox
	messages services.Messages
}

type SectionController struct {
	app            application.Application
	sessionService *services.SessionService
	decoder        *form.Decoder
	basePath       string

	mu       sync.Mutex
	sessions map[uuid.UUID]*openSession
}

func NewSectionController(app application.Application) application.Controller {
	return &SectionController{
		app:            app,
		sessionService: app.Service(services.SessionService{}).(*services.SessionService),
		decoder:        form.NewDecoder(),
		basePath:       "/section-sessions",
		sessions:       make(map[uuid.UUID]*openSession),
	}
}

func (c *SectionController) Key() string {
	return c.basePath
}

func (c *SectionController) Register(r *mux.Router) {
	commonMiddleware := []mux.MiddlewareFunc{
		middleware.ProvideLocalizer(c.app),
	}
	openRouter := r.PathPrefix("/template/{templateID:[0-9]+}/section/{sectionID:[0-9]+}").Subrouter()
	openRouter.Use(commonMiddleware...)
	openRouter.HandleFunc("/session", c.Open).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath + "/{sessionID}").Subrouter()
	router.Use(commonMiddleware...)
	router.HandleFunc("", c.Get).Methods(http.MethodGet)
	router.HandleFunc("", c.Close).Methods(http.MethodDelete)
	router.HandleFunc("/load", c.Load).Methods(http.MethodPost)
	router.HandleFunc("/fields", c.ChangeField).Methods(http.MethodPost)
	router.HandleFunc("/fields", c.PatchFields).Methods(http.MethodPatch)
	router.HandleFunc("/tags", c.SearchTags).Methods(http.MethodGet)
	router.HandleFunc("/tags/{tagID:[0-9]+}/toggle", c.ToggleTag).Methods(http.MethodPost)
	router.HandleFunc("/submit", c.Submit).Methods(http.MethodPost)
	router.HandleFunc("/delete", c.OpenDelete).Methods(http.MethodPost)
	router.HandleFunc("/delete", c.CancelDelete).Methods(http.MethodDelete)
	router.HandleFunc("/delete/confirm", c.ConfirmDelete).Methods(http.MethodPost)
	router.HandleFunc("/unload", c.Unload).Methods(http.MethodPost)
}

func (c *SectionController) Open(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := strconv.ParseInt(vars["templateID"], 10, 64)
	if err != nil {
		_ = httpapi.WriteStatusError(w, http.StatusBadRequest, err)
		return
	}
	sectionID, err := strconv.ParseInt(vars["sectionID"], 10, 64)
	if err != nil {
		_ = httpapi.WriteStatusError(w, http.StatusBadRequest, err)
		return
	}

	localizer, _ := intl.UseLocalizer(r.Context())
	messages := services.NewMessages(localizer)
	mb := &mailbox{}
	// Loading outlives the request: a client that disconnects early may come
	// back for the session by id.
	id, sess, loadErr := c.sessionService.Open(context.WithoutCancel(r.Context()), services.OpenParams{
		TemplateID: templateID,
		SectionID:  sectionID,
		Messages:   messages,
		Notifier:   mb,
		Router:     mb,
	})
	mb.bind(func() { c.forget(id) })

	c.mu.Lock()
	for key, open := range c.sessions {
		if open.session.Closed() {
			delete(c.sessions, key)
		}
	}
	c.sessions[id] = &openSession{session: sess, mailbox: mb, messages: messages}
	c.mu.Unlock()

	status := http.StatusCreated
	if loadErr != nil {
		middleware.UseLogger(r.Context()).WithError(loadErr).Warn("section session opened without data")
		status = http.StatusBadGateway
	}
	if errors.Is(loadErr, section.ErrNotFound) {
		// Nothing to edit; the session is not kept around for a retry.
		c.respond(w, r, id, c.lookupOpen(id), 0, http.StatusNotFound)
		c.forget(id)
		c.drop(id)
		return
	}
	c.respond(w, r, id, c.lookupOpen(id), 0, status)
}

func (c *SectionController) Get(w http.ResponseWriter, r *http.Request) {
	id, open, ok := c.session(w, r)
	if !ok {
		return
	}
	c.respond(w, r, id, open, open.session.State().ErrorsRevision, http.StatusOK)
}

func (c *SectionController) Close(w http.ResponseWriter, r *http.Request) {
	id, _, ok := c.session(w, r)
	if !ok {
		return
	}
	c.forget(id)
	c.drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (c *SectionController) Load(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(ctx context.Context, sess *services.Session) error {
		return sess.Load(ctx)
	})
}

func (c *SectionController) ChangeField(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(_ context.Context, sess *services.Session) error {
		if err := r.ParseForm(); err != nil {
			return errors.Join(section.ErrInvalidValue, err)
		}
		var dto FieldChangeDTO
		if err := c.decoder.Decode(&dto, r.Form); err != nil {
			return errors.Join(section.ErrInvalidValue, err)
		}
		return sess.ChangeField(dto.Field, dto.Value)
	})
}

func (c *SectionController) PatchFields(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(_ context.Context, sess *services.Session) error {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBody))
		if err != nil {
			return errors.Join(section.ErrInvalidValue, err)
		}
		p, err := mappers.FieldPatchFromJSONPatch(sess.State().WorkingCopy, raw)
		if err != nil {
			return errors.Join(section.ErrInvalidValue, err)
		}
		if p.IsEmpty() {
			return nil
		}
		return sess.Change(p)
	})
}

func (c *SectionController) ToggleTag(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(_ context.Context, sess *services.Session) error {
		tagID, err := strconv.ParseInt(mux.Vars(r)["tagID"], 10, 64)
		if err != nil {
			return errors.Join(section.ErrInvalidValue, err)
		}
		return sess.ToggleTag(tagID)
	})
}

func (c *SectionController) SearchTags(w http.ResponseWriter, r *http.Request) {
	id, open, ok := c.session(w, r)
	if !ok {
		return
	}
	tags := open.session.SearchTags(r.URL.Query().Get("q"))
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.TagRowsToViewModels(id, tags, open.session.State()))
}

func (c *SectionController) Submit(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(ctx context.Context, sess *services.Session) error {
		res := sess.Submit(ctx)
		middleware.UseLogger(r.Context()).WithField("result", res.String()).Debug("section submit")
		return nil
	})
}

func (c *SectionController) OpenDelete(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(_ context.Context, sess *services.Session) error {
		return sess.OpenDelete()
	})
}

func (c *SectionController) CancelDelete(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(_ context.Context, sess *services.Session) error {
		return sess.CancelDelete()
	})
}

func (c *SectionController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, func(ctx context.Context, sess *services.Session) error {
		res := sess.ConfirmDelete(ctx)
		middleware.UseLogger(r.Context()).WithField("result", res.String()).Debug("section delete")
		return nil
	})
}

func (c *SectionController) Unload(w http.ResponseWriter, r *http.Request) {
	_, open, ok := c.session(w, r)
	if !ok {
		return
	}
	ev := open.session.DispatchUnload()
	_ = httpapi.WriteJSON(w, http.StatusOK, UnloadResponse{
		Prevented:   ev.DefaultPrevented(),
		ReturnValue: ev.ReturnValue,
	})
}

// handle runs fn against the addressed session and answers with its new
// state. Remote calls made by fn run detached from the request context so
// a dropped connection does not abort a save half way.
func (c *SectionController) handle(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, sess *services.Session) error,
) {
	id, open, ok := c.session(w, r)
	if !ok {
		return
	}
	before := open.session.State().ErrorsRevision
	if err := fn(context.WithoutCancel(r.Context()), open.session); err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			middleware.UseLogger(r.Context()).WithError(err).Error("section session request failed")
		}
		if status == http.StatusBadGateway {
			c.respond(w, r, id, open, before, status)
			return
		}
		_ = httpapi.WriteStatusError(w, status, err)
		return
	}
	c.respond(w, r, id, open, before, http.StatusOK)
}

func (c *SectionController) respond(
	w http.ResponseWriter,
	r *http.Request,
	id uuid.UUID,
	open *openSession,
	prevRevision uint64,
	status int,
) {
	st := open.session.State()
	toasts, redirect := open.mailbox.drain()
	for _, t := range toasts {
		if t.kind == services.ToastError {
			htmx.ToastError(w, "", t.message)
		} else {
			htmx.ToastSuccess(w, "", t.message)
		}
	}
	if st.ScrollToErrors(prevRevision) {
		htmx.SetTrigger(w, "scrollToErrors", map[string]uint64{"revision": st.ErrorsRevision})
	}
	if redirect != "" {
		htmx.Redirect(w, redirect)
	}

	vm, err := mappers.SessionToViewModel(id, st, open.messages)
	if err != nil {
		middleware.UseLogger(r.Context()).WithError(err).Error("failed to map section session")
		_ = httpapi.WriteStatusError(w, http.StatusInternalServerError, err)
		return
	}
	_ = httpapi.WriteJSON(w, status, vm)
}

func (c *SectionController) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, *openSession, bool) {
	id, err := uuid.Parse(mux.Vars(r)["sessionID"])
	if err != nil {
		_ = httpapi.WriteStatusError(w, http.StatusBadRequest, err)
		return uuid.Nil, nil, false
	}
	if _, err := c.sessionService.Get(id); err != nil {
		c.drop(id)
		_ = httpapi.WriteStatusError(w, http.StatusNotFound, err)
		return uuid.Nil, nil, false
	}
	open := c.lookupOpen(id)
	if open == nil {
		_ = httpapi.WriteStatusError(w, http.StatusNotFound, services.ErrSessionNotFound)
		return uuid.Nil, nil, false
	}
	return id, open, true
}

func (c *SectionController) lookupOpen(id uuid.UUID) *openSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id]
}

// forget closes the session. Its mailbox stays reachable until drained by
// the response that caused the navigation.
func (c *SectionController) forget(id uuid.UUID) {
	c.sessionService.Close(id)
}

func (c *SectionController) drop(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, section.ErrUnknownField),
		errors.Is(err, section.ErrInvalidValue),
		errors.Is(err, services.ErrUnknownTag):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotReady),
		errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrSessionClosed),
		errors.Is(err, services.ErrSessionNotFound):
		return http.StatusGone
	case errors.Is(err, section.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
