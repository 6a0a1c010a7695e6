package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/stretchr/testify/require"
)

func TestExporterWriteRead(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	doc := &trivia.Document{
		Name: "Ling",
		URL:  "https://arknights.fandom.com/wiki/Ling/Trivia",
		TriviaItems: []trivia.Item{
			{Text: "Her Chinese name means order."},
			{Text: "One of the Sui siblings.", SubItems: []string{"Nian", "Dusk"}},
		},
	}

	path, err := e.Write(doc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Ling", "Trivia.json"), path)

	got, err := e.Read("Ling")
	require.NoError(t, err)
	require.Equal(t, doc, got)

	// exported form is indented for human diffing
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n  \"trivia_items\"")
}

func TestExporterRejectsInvalidDocument(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.Write(&trivia.Document{Name: "", URL: "u"})
	require.Error(t, err)
}

func TestExporterSanitizesName(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)
	doc := &trivia.Document{Name: "Rosmontis/Alter", URL: "u", TriviaItems: []trivia.Item{{Text: "t"}}}

	path, err := e.Write(doc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Rosmontis_Alter", "Trivia.json"), path)
}
