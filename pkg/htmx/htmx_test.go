package htmx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTrigger_MergesEvents(t *testing.T) {
	w := httptest.NewRecorder()
	ToastSuccess(w, "", "Section updated")
	SetTrigger(w, "scrollToErrors", true)

	var events map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(HeaderTrigger)), &events))
	require.Contains(t, events, "showToast")
	require.JSONEq(t, `true`, string(events["scrollToErrors"]))

	var toast Toast
	require.NoError(t, json.Unmarshal(events["showToast"], &toast))
	require.Equal(t, Toast{Variant: "success", Message: "Section updated"}, toast)
}

func TestSetTrigger_PlainEventName(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(HeaderTrigger, "refresh")
	SetTrigger(w, "scrollToErrors", nil)

	var events map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(HeaderTrigger)), &events))
	require.Contains(t, events, "refresh")
	require.Contains(t, events, "scrollToErrors")
}

func TestRedirectAndRequest(t *testing.T) {
	w := httptest.NewRecorder()
	Redirect(w, "/template/7")
	require.Equal(t, "/template/7", w.Header().Get(HeaderRedirect))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.False(t, IsHxRequest(r))
	r.Header.Set(HeaderRequest, "true")
	require.True(t, IsHxRequest(r))
}
