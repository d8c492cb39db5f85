package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/nphdash/internal/model"
)

func TestDateFormatterEnglish(t *testing.T) {
	f, err := NewDateFormatter("en", "")
	require.NoError(t, err)

	assert.Equal(t, "01-Mar-2024", f.Format(model.Date{Year: 2024, Month: time.March, Day: 1}))
	assert.Equal(t, "31-Dec-1999", f.Format(model.Date{Year: 1999, Month: time.December, Day: 31}))
	assert.Equal(t, DefaultEmpty, f.Format(model.Date{}))
}

func TestDateFormatterSpanish(t *testing.T) {
	f, err := NewDateFormatter("", "")
	require.NoError(t, err)
	assert.Equal(t, "es_ES", f.Locale())

	got := f.Format(model.Date{Year: 2024, Month: time.March, Day: 1})
	assert.Equal(t, "01-mar-2024", got)
}

func TestDateFormatterCustomEmpty(t *testing.T) {
	f, err := NewDateFormatter("es", "-")
	require.NoError(t, err)
	assert.Equal(t, "-", f.Format(model.Date{}))
}

func TestDateFormatterUnknownLocale(t *testing.T) {
	_, err := NewDateFormatter("xx_YY", "")
	assert.Error(t, err)
}
