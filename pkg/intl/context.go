package intl

import (
	"context"
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var ErrNoLocalizer = errors.New("localizer not found in context")

type localizerKey struct{}
type localeKey struct{}

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	return l, ok && l != nil
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

func UseLocale(ctx context.Context) language.Tag {
	tag, ok := ctx.Value(localeKey{}).(language.Tag)
	if !ok {
		return language.English
	}
	return tag
}

// Localize resolves messageID, falling back to defaultMessage when the
// localizer is nil or the message is missing from the bundle.
func Localize(l *i18n.Localizer, messageID, defaultMessage string) string {
	if l == nil {
		return defaultMessage
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
		DefaultMessage: &i18n.Message{
			ID:    messageID,
			Other: defaultMessage,
		},
	})
	if err != nil || msg == "" {
		return defaultMessage
	}
	return msg
}
