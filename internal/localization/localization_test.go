package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalizer_LoadsBundledLocales(t *testing.T) {
	l, err := NewLocalizer()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "uk"}, l.Languages())

	// Every key has a translation in every language.
	for key := range l.translations[DefaultLanguage] {
		for _, lang := range l.Languages() {
			assert.Contains(t, l.translations[lang], key, "%s missing in %s", key, lang)
		}
	}
}

func TestGetString_Fallbacks(t *testing.T) {
	l, err := Load(fstest.MapFS{
		"en.json":    {Data: []byte(`{"greeting":"Hello","bye":"Bye"}`)},
		"uk.json":    {Data: []byte(`{"greeting":"Привіт"}`)},
		"README.txt": {Data: []byte("ignored")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))
	assert.Equal(t, "Bye", l.GetString("uk", "bye"))
	assert.Equal(t, "Hello", l.GetString("fr", "greeting"))
	assert.Equal(t, "missing", l.GetString("en", "missing"))
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(fstest.MapFS{"en.json": {Data: []byte(`{`)}})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	l, err := NewLocalizer()
	require.NoError(t, err)

	got := l.Render("en", "event.status-changed", map[string]string{"title": "Pothole", "status": "InProgress"})
	assert.Equal(t, `Your complaint "Pothole" is now InProgress.`, got)

	assert.Equal(t, l.GetString("en", "start"), l.Render("en", "start", nil))
}
