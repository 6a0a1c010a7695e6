package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/Ling/Trivia"):
			w.Write([]byte(triviaPage))
		case strings.HasSuffix(r.URL.Path, "/Missing/Trivia"):
			http.NotFound(w, r)
		default:
			w.Write([]byte(`<html><body>
<h1 class="page-header__title">Texas's trivia</h1>
<div class="mw-parser-output"><ul><li>She runs a delivery service.</li></ul></div>
</body></html>`))
		}
	}))
}

func TestScrapeTrivia(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	rec, err := s.ScrapeTrivia(context.Background(), "Ling")
	require.NoError(t, err)
	require.Equal(t, "Ling", rec.Document.Name)
	require.Len(t, rec.Document.TriviaItems, 3)
	require.False(t, rec.FetchedAt.IsZero())
	require.Empty(t, rec.ArchiveKey)
}

func TestScrapeTriviaNotFound(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	_, err := s.ScrapeTrivia(context.Background(), "Missing")
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestPageURLEscaping(t *testing.T) {
	s := New(Config{BaseURL: "https://arknights.fandom.com/wiki"}, nil)
	require.Equal(t, "https://arknights.fandom.com/wiki/Projekt_Red/Trivia", s.PageURL("Projekt Red"))
	require.Equal(t, "https://arknights.fandom.com/wiki/Ch%27en/Trivia", s.PageURL("Ch'en"))
}

type fakeArchive struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeArchive) PutHTML(ctx context.Context, key string, body []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "raw/" + key, nil
}

func TestScrapeTriviaArchivesRawHTML(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	ar := &fakeArchive{}
	s := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, ar)
	rec, err := s.ScrapeTrivia(context.Background(), "Ling")
	require.NoError(t, err)
	require.Equal(t, "raw/Ling/Trivia.html", rec.ArchiveKey)
	require.Equal(t, []string{"Ling/Trivia.html"}, ar.keys)
}

func TestScrapeAll(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	results := s.ScrapeAll(context.Background(), []string{"Ling", "Missing", "Texas"}, 2)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.Equal(t, "Ling", results[0].Record.Document.Name)

	require.ErrorIs(t, results[1].Err, ErrPageNotFound)
	require.Nil(t, results[1].Record)

	require.NoError(t, results[2].Err)
	require.Equal(t, "Texas", results[2].Record.Document.Name)
}

func TestFetcherRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "")
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 500")
}
