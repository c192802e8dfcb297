package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type contextKey struct{}

var (
	English = language.English
	French  = language.French

	supported = []language.Tag{English, French}
	matcher   = language.NewMatcher(supported)
	messages  = newCatalog()
)

// Match resolves an Accept-Language header to a supported language,
// defaulting to English.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	return supported[index]
}

// FromPreference maps a stored user preference (english/french) to a tag.
func FromPreference(preferredLang string) language.Tag {
	if preferredLang == "french" || preferredLang == "fr" {
		return French
	}
	return English
}

func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, contextKey{}, tag)
}

func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(contextKey{}).(language.Tag); ok {
		return tag
	}
	return English
}

// Code is the short language code used to select localized fields.
func Code(ctx context.Context) string {
	if FromContext(ctx) == French {
		return "fr"
	}
	return "en"
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// T renders key in the request language. Numbers must be passed as
// strings: the printer would otherwise group digits per locale.
func T(ctx context.Context, key string, args ...any) string {
	return Printer(FromContext(ctx)).Sprintf(key, args...)
}

// In renders key in an explicit language.
func In(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}

func newCatalog() *catalog.Builder {
	builder := catalog.NewBuilder(catalog.Fallback(English))
	for key, translations := range translations {
		if err := builder.SetString(English, key, translations.en); err != nil {
			panic(err)
		}
		if err := builder.SetString(French, key, translations.fr); err != nil {
			panic(err)
		}
	}
	return builder
}
