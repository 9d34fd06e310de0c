package render

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/pt"
	"golang.org/x/text/language"

	"noteboard/internal/note"
)

var translators = map[string]func() locales.Translator{
	"en": en.New,
	"es": es.New,
	"fr": fr.New,
	"de": de.New,
	"pt": pt.New,
	"it": it.New,
}

// DateFormatter renders note dates in a locale's medium date style.
type DateFormatter struct {
	trans locales.Translator
	tag   language.Tag
}

// NewDateFormatter picks the translator for locale ("es", "es-ES", "es_ES.UTF-8").
// Unsupported locales fall back to English.
func NewDateFormatter(locale string) DateFormatter {
	base := baseLanguage(locale)
	ctor, ok := translators[base]
	if !ok {
		base = "en"
		ctor = translators[base]
	}
	return DateFormatter{trans: ctor(), tag: language.Make(base)}
}

// Tag is the language the formatter resolved to.
func (f DateFormatter) Tag() language.Tag {
	return f.tag
}

// Format renders a YYYY-MM-DD date. Unparsable input is returned unchanged.
func (f DateFormatter) Format(ymd string) string {
	t, err := time.Parse(note.DateLayout, ymd)
	if err != nil {
		return ymd
	}
	return f.trans.FmtDateMedium(t)
}

// LocaleFromEnv reads the user's locale from LC_ALL, LC_TIME or LANG.
func LocaleFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "en"
}

func baseLanguage(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	b, _ := tag.Base()
	return b.String()
}
