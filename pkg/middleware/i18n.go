package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/section-editor/pkg/intl"
)

// LangQueryParam overrides Accept-Language when present, e.g. ?lang=zh.
const LangQueryParam = "lang"

type Application interface {
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string
}

// ProvideLocalizer puts the request's localizer and locale into the context
// and echoes the chosen locale in Content-Language.
func ProvideLocalizer(app Application) mux.MiddlewareFunc {
	bundle := app.Bundle()
	supported := app.GetSupportedLanguages()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				preferred := r.Header.Get("Accept-Language")
				if lang := r.URL.Query().Get(LangQueryParam); lang != "" {
					preferred = lang
				}
				localizer, locale := intl.NewLocalizer(bundle, preferred, supported)
				w.Header().Set("Content-Language", locale.String())
				ctx := intl.WithLocalizer(r.Context(), localizer)
				ctx = intl.WithLocale(ctx, locale)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}
