package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

func TestSession_LoadSeedsWorkingCopyAndTags(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, PhaseLoading, f.session.State().Phase)

	require.NoError(t, f.session.Load(context.Background()))

	st := f.session.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, OperationNone, st.Operation)
	require.Equal(t, "Different Name", st.WorkingCopy.Name)
	require.Equal(t, st.Snapshot, st.WorkingCopy)
	require.False(t, st.Dirty)
	require.Len(t, st.Catalog, 11)
	require.Len(t, st.SelectedTags, 2)
	require.True(t, st.IsSelected(2))
	require.True(t, st.IsSelected(5))
	require.False(t, st.IsSelected(1))
	require.Empty(t, st.GlobalErrors)
	require.False(t, st.FieldErrors.HasAny())
}

func TestSession_LoadFailureStaysLoading(t *testing.T) {
	f := newFixture(t)
	f.repo.tagsErr = errors.New("catalog unavailable")

	err := f.session.Load(context.Background())
	require.Error(t, err)

	st := f.session.State()
	require.Equal(t, PhaseLoading, st.Phase)
	require.Equal(t, []string{DefaultMessages().LoadFailed}, st.GlobalErrors)
	require.True(t, st.ScrollToErrors(0))

	logged := f.logger.calls()
	require.Len(t, logged, 1)
	require.Equal(t, logrus.ErrorLevel, logged[0].level)
	require.Equal(t, OpGetTags, logged[0].operation)
	require.Equal(t, section.EditPath(testTemplateID, testSectionID), logged[0].path)

	require.ErrorIs(t, f.session.ChangeField("name", "x"), ErrNotReady)
	require.ErrorIs(t, f.session.ToggleTag(1), ErrNotReady)
	require.Equal(t, SubmitIgnored, f.session.Submit(context.Background()))
}

func TestSession_LoadNotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.section.ID = 999

	err := f.session.Load(context.Background())
	require.ErrorIs(t, err, section.ErrNotFound)
	require.Equal(t, OpGetSection, f.logger.calls()[0].operation)
}

func TestSession_ChangeFieldMergesAndDirties(t *testing.T) {
	f := newLoadedFixture(t)

	require.NoError(t, f.session.ChangeField("name", "New Section Name"))
	require.NoError(t, f.session.ChangeField("displayOrder", "4"))
	require.NoError(t, f.session.ChangeField("bestPractice", ""))

	st := f.session.State()
	require.True(t, st.Dirty)
	require.Equal(t, "New Section Name", st.WorkingCopy.Name)
	require.Equal(t, 4, st.WorkingCopy.DisplayOrder)
	require.False(t, st.WorkingCopy.BestPractice)
	require.Equal(t, "<p>Guidance</p>", st.WorkingCopy.Guidance)
	require.Equal(t, "Different Name", st.Snapshot.Name)
}

func TestSession_ChangeFieldRejectsBadInput(t *testing.T) {
	f := newLoadedFixture(t)

	require.ErrorIs(t, f.session.ChangeField("colour", "red"), section.ErrUnknownField)
	require.ErrorIs(t, f.session.ChangeField("displayOrder", "first"), section.ErrInvalidValue)
	require.False(t, f.session.Dirty())
}

func TestSession_ToggleTag(t *testing.T) {
	f := newLoadedFixture(t)

	require.NoError(t, f.session.ToggleTag(3))
	st := f.session.State()
	require.True(t, st.Dirty)
	require.True(t, st.IsSelected(3))

	require.ErrorIs(t, f.session.ToggleTag(404), ErrUnknownTag)
}

func TestSession_UnloadVetoFollowsDirty(t *testing.T) {
	f := newLoadedFixture(t)

	ev := f.session.DispatchUnload()
	require.False(t, ev.DefaultPrevented())

	require.NoError(t, f.session.ChangeField("guidance", "<p>More</p>"))
	ev = f.session.DispatchUnload()
	require.True(t, ev.DefaultPrevented())
	require.Equal(t, DefaultMessages().UnsavedChanges, ev.ReturnValue)
}

func TestSession_CloseDeregistersGuard(t *testing.T) {
	f := newLoadedFixture(t)
	require.NoError(t, f.session.ChangeField("name", "Edited"))

	f.session.Close()
	require.True(t, f.session.Closed())
	require.False(t, f.session.DispatchUnload().DefaultPrevented())
	require.ErrorIs(t, f.session.ChangeField("name", "again"), ErrSessionClosed)
	require.ErrorIs(t, f.session.Load(context.Background()), ErrSessionClosed)

	f.session.Close()
}

func TestSession_StateIsACopy(t *testing.T) {
	f := newLoadedFixture(t)

	st := f.session.State()
	st.SelectedTags[0].ID = 42
	st.FieldErrors[section.FieldName] = "x"
	st.WorkingCopy.Tags[0].Name = "mutated"

	again := f.session.State()
	require.True(t, again.IsSelected(2))
	require.Empty(t, again.FieldErrors[section.FieldName])
	require.Equal(t, "Tag 2", again.WorkingCopy.Tags[0].Name)
}

func TestSession_TouchUsesClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession(SessionOptions{
		SectionID:  testSectionID,
		Repository: &mockSectionRepo{},
		Now:        func() time.Time { return now },
	})
	defer s.Close()
	require.Equal(t, now, s.LastActive())

	now = now.Add(time.Minute)
	s.Touch()
	require.Equal(t, now, s.LastActive())
}
