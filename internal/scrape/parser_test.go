package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const triviaPage = `<!doctype html>
<html>
<body>
<h1 class="page-header__title">Ling's trivia</h1>
<div id="mw-content-text">
<div class="mw-parser-output">
<ul>
<li>Her Chinese name means order.<sup class="reference">[1]</sup></li>
<li>She is one of the Sui siblings.
  <ul>
    <li>Nian is her elder sister.<sup class="reference">[2]</sup></li>
    <li>Dusk is her younger sister.</li>
  </ul>
</li>
<li>Her poems reference classical works. [3]</li>
</ul>
<p>Trailing prose that is not part of the list.</p>
</div>
</div>
</body>
</html>`

func TestParseTriviaPage(t *testing.T) {
	doc, err := ParseTriviaPage([]byte(triviaPage), "fallback", "https://example.org/Ling/Trivia")
	require.NoError(t, err)

	require.Equal(t, "Ling", doc.Name)
	require.Equal(t, "https://example.org/Ling/Trivia", doc.URL)
	require.Len(t, doc.TriviaItems, 3)

	require.Equal(t, "Her Chinese name means order.", doc.TriviaItems[0].Text)
	require.Nil(t, doc.TriviaItems[0].SubItems)

	require.Equal(t, "She is one of the Sui siblings.", doc.TriviaItems[1].Text)
	require.Equal(t, []string{"Nian is her elder sister.", "Dusk is her younger sister."}, doc.TriviaItems[1].SubItems)

	// bracketed citation markers are stripped from the text
	require.Equal(t, "Her poems reference classical works.", doc.TriviaItems[2].Text)

	require.NoError(t, doc.Validate())
}

func TestParseTriviaPageParagraphFallback(t *testing.T) {
	page := `<html><body>
<h1 class="page-header__title">Amiya's trivia</h1>
<div class="mw-parser-output">
<p>This is a stub page. Please expand it.</p>
<p>Amiya carries her father's ring.<sup class="reference">[1]</sup></p>
</div>
</body></html>`

	doc, err := ParseTriviaPage([]byte(page), "Amiya", "u")
	require.NoError(t, err)
	require.Len(t, doc.TriviaItems, 1)
	require.Equal(t, "Amiya carries her father's ring.", doc.TriviaItems[0].Text)
}

func TestParseTriviaPageNoContent(t *testing.T) {
	_, err := ParseTriviaPage([]byte(`<html><body><div class="mw-parser-output"></div></body></html>`), "n", "u")
	require.ErrorIs(t, err, ErrNoContent)
}

func TestParseTriviaPageFallbackName(t *testing.T) {
	page := `<html><body><div class="mw-parser-output"><ul><li>entry</li></ul></div></body></html>`
	doc, err := ParseTriviaPage([]byte(page), "SilverAsh", "u")
	require.NoError(t, err)
	require.Equal(t, "SilverAsh", doc.Name)
}

func TestParseOperatorList(t *testing.T) {
	page := `<html><body>
<table class="wikitable">
<tr><td><a title="Amiya">Amiya</a></td></tr>
<tr><td><a title="Ling">Ling</a></td></tr>
<tr><td><a title="Ling/Gallery">gallery link</a></td></tr>
<tr><td><a title="Category:Casters">cat</a></td></tr>
<tr><td><a title="Amiya">duplicate</a></td></tr>
</table>
<a title="Outside">outside any table</a>
</body></html>`

	names, err := parseOperatorList([]byte(page))
	require.NoError(t, err)
	require.Equal(t, []string{"Amiya", "Ling"}, names)
}
