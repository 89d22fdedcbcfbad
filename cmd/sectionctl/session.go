package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/logging"
)

// console prints toasts to stderr and remembers where the session wanted to
// navigate.
type console struct {
	out      io.Writer
	redirect string
}

func (c *console) Notify(message string, kind services.ToastType) {
	fmt.Fprintf(c.out, "[%s] %s\n", kind, message)
}

func (c *console) NavigateTo(path string) {
	c.redirect = path
}

func parseSectionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid section id %q", raw)
	}
	return id, nil
}

// openSession loads the section into a fresh editing session.
func (e *cmdEnv) openSession(ctx context.Context, rawID string) (*services.Session, *console, error) {
	id, err := parseSectionID(rawID)
	if err != nil {
		return nil, nil, err
	}
	repo, err := e.newRepo(e.flags)
	if err != nil {
		return nil, nil, err
	}
	con := &console{out: e.stderr}
	sess := services.NewSession(services.SessionOptions{
		SectionID:  id,
		Repository: repo,
		Logger:     logging.NewOperationLogger(e.logger()),
		Notifier:   con,
		Router:     con,
	})
	if err := sess.Load(ctx); err != nil {
		sess.Close()
		return nil, nil, fmt.Errorf("load section %d: %w", id, err)
	}
	return sess, con, nil
}
