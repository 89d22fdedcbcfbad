// Package htmx reads and writes the headers htmx uses to drive the page
// from a response.
package htmx

import (
	"encoding/json"
	"net/http"
)

const (
	HeaderRequest  = "Hx-Request"
	HeaderTrigger  = "Hx-Trigger"
	HeaderRedirect = "Hx-Redirect"
)

// Toast is the payload of the showToast client event.
type Toast struct {
	Variant string `json:"variant"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func IsHxRequest(r *http.Request) bool {
	return len(r.Header.Get(HeaderRequest)) > 0
}

// SetTrigger adds event to the HX-Trigger header, keeping events set earlier
// in the same response.
func SetTrigger(w http.ResponseWriter, event string, detail any) {
	events := map[string]any{}
	if existing := w.Header().Get(HeaderTrigger); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{existing: nil}
		}
	}
	events[event] = detail
	encoded, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set(HeaderTrigger, string(encoded))
}

func Redirect(w http.ResponseWriter, path string) {
	w.Header().Set(HeaderRedirect, path)
}

func ToastSuccess(w http.ResponseWriter, title, message string) {
	SetTrigger(w, "showToast", Toast{Variant: "success", Title: title, Message: message})
}

func ToastError(w http.ResponseWriter, title, message string) {
	SetTrigger(w, "showToast", Toast{Variant: "error", Title: title, Message: message})
}
