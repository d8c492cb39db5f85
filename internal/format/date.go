// Package format renders model values for display.
package format

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/es_ES"

	"github.com/nhle/nphdash/internal/model"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "es_ES"

// DefaultEmpty is shown for unset dates.
const DefaultEmpty = "Sin fecha"

var constructors = map[string]func() locales.Translator{
	"es_ES": es_ES.New,
	"es":    es.New,
	"en":    en.New,
}

// DateFormatter renders dates as dd-MMM-yyyy using a locale's
// abbreviated month names.
type DateFormatter struct {
	trans locales.Translator
	empty string
}

// NewDateFormatter returns a formatter for the given locale. Unknown
// locales are an error; an empty locale means DefaultLocale and an
// empty placeholder means DefaultEmpty.
func NewDateFormatter(locale, empty string) (*DateFormatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	newTrans, ok := constructors[strings.ReplaceAll(locale, "-", "_")]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	if empty == "" {
		empty = DefaultEmpty
	}
	return &DateFormatter{trans: newTrans(), empty: empty}, nil
}

// Locale returns the locale name the formatter was built with.
func (f *DateFormatter) Locale() string { return f.trans.Locale() }

// Format renders d, or the empty placeholder when d is unset.
func (f *DateFormatter) Format(d model.Date) string {
	if d.IsZero() {
		return f.empty
	}
	month := strings.TrimSuffix(f.trans.MonthAbbreviated(d.Month), ".")
	return fmt.Sprintf("%02d-%s-%04d", d.Day, month, d.Year)
}
