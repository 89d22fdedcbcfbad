package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

func TestDelete_OpenThenCancelChangesNothing(t *testing.T) {
	f := newLoadedFixture(t)
	require.NoError(t, f.session.ChangeField("name", "Edited Name"))
	before := f.session.State()

	require.NoError(t, f.session.OpenDelete())
	require.True(t, f.session.State().DeleteDialog.Open)
	require.NoError(t, f.session.CancelDelete())

	after := f.session.State()
	require.False(t, after.DeleteDialog.Open)
	require.Equal(t, before.WorkingCopy, after.WorkingCopy)
	require.Equal(t, before.Snapshot, after.Snapshot)
	require.Equal(t, before.Dirty, after.Dirty)
	require.Empty(t, f.repo.removeCalls())
}

func TestDelete_ConfirmRequiresOpenDialog(t *testing.T) {
	f := newLoadedFixture(t)
	require.Equal(t, DeleteIgnored, f.session.ConfirmDelete(context.Background()))
	require.Empty(t, f.repo.removeCalls())
}

func TestDelete_SuccessNavigatesToTemplate(t *testing.T) {
	f := newLoadedFixture(t)
	f.repo.removeResult = section.RemoveResult{ID: 123}

	require.NoError(t, f.session.OpenDelete())
	require.Equal(t, DeleteRemoved, f.session.ConfirmDelete(context.Background()))

	require.Equal(t, []int64{123}, f.repo.removeCalls())
	require.Equal(t, []string{"/template/7"}, f.router.calls())
	require.Equal(t, []toast{{message: DefaultMessages().Removed, kind: ToastSuccess}}, f.notifier.calls())

	st := f.session.State()
	require.Equal(t, DeleteDialog{}, st.DeleteDialog)
	require.Equal(t, PhaseRedirecting, st.Phase)
}

func TestDelete_FailureLogsAndCloses(t *testing.T) {
	f := newLoadedFixture(t)
	cause := errors.New("502 bad gateway")
	f.repo.removeErr = cause
	require.NoError(t, f.session.ChangeField("name", "Edited Name"))

	require.NoError(t, f.session.OpenDelete())
	require.Equal(t, DeleteFailed, f.session.ConfirmDelete(context.Background()))

	st := f.session.State()
	require.Equal(t, DeleteDialog{}, st.DeleteDialog)
	require.Equal(t, []string{DefaultMessages().DeleteFailed}, st.GlobalErrors)
	require.True(t, st.ScrollToErrors(0))
	require.True(t, st.Dirty)
	require.Equal(t, "Edited Name", st.WorkingCopy.Name)
	require.Equal(t, PhaseReady, st.Phase)

	logged := f.logger.calls()
	require.Len(t, logged, 1)
	require.Equal(t, logrus.ErrorLevel, logged[0].level)
	require.Equal(t, OpRemoveSection, logged[0].operation)
	require.Equal(t, "/template/7/section/123", logged[0].path)
	require.ErrorIs(t, logged[0].err, cause)
	require.Empty(t, f.router.calls())
}

func TestDelete_MissingIDIsFailure(t *testing.T) {
	f := newLoadedFixture(t)
	f.repo.removeResult = section.RemoveResult{}

	require.NoError(t, f.session.OpenDelete())
	require.Equal(t, DeleteFailed, f.session.ConfirmDelete(context.Background()))
	require.ErrorIs(t, f.logger.calls()[0].err, ErrNotRemoved)
}

func TestDelete_ConfirmWhileInFlightIsNoop(t *testing.T) {
	f := newLoadedFixture(t)
	f.repo.block()
	require.NoError(t, f.session.OpenDelete())

	done := make(chan DeleteResult, 1)
	go func() { done <- f.session.ConfirmDelete(context.Background()) }()
	<-f.repo.started

	st := f.session.State()
	require.Equal(t, DeleteDialog{Open: true, InFlight: true}, st.DeleteDialog)
	require.Equal(t, PhaseDeleting, st.Phase)
	require.Equal(t, OperationDeleting, st.Operation)

	for range 3 {
		require.Equal(t, DeleteIgnored, f.session.ConfirmDelete(context.Background()))
	}
	require.ErrorIs(t, f.session.CancelDelete(), ErrBusy)
	require.Equal(t, SubmitIgnored, f.session.Submit(context.Background()))

	close(f.repo.gate)
	require.Equal(t, DeleteRemoved, <-done)
	require.Len(t, f.repo.removeCalls(), 1)
	require.Empty(t, f.repo.updateCalls())
}

func TestDelete_OpenBeforeLoad(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.session.OpenDelete(), ErrNotReady)
}
