package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumePage = `<!DOCTYPE html>
<html>
<head><title>Ada Example</title><style>p { color: red }</style></head>
<body>
<nav><a href="/">home</a></nav>
<script>console.log("tracking")</script>
<main>
<h1>Ada Example</h1>
<p>Backend engineer with five years of Go experience.</p>
<ul>
<li>Built payment services on PostgreSQL</li>
<li>Led   a   team of three</li>
</ul>
</main>
<footer>copyright</footer>
</body>
</html>`

func TestResumeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(resumePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	text, err := f.ResumeText(context.Background(), srv.URL, "test-agent")
	require.NoError(t, err)

	assert.Contains(t, text, "Ada Example")
	assert.Contains(t, text, "Backend engineer with five years of Go experience.")
	assert.Contains(t, text, "Led a team of three")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "copyright")
}

func TestResumeTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.ResumeText(context.Background(), srv.URL, "test-agent")
	require.Error(t, err)
}

func TestResumeTextEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div>only divs here</div></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.ResumeText(context.Background(), srv.URL, "test-agent")
	require.Error(t, err)
}

func TestResumeTextRejectsScheme(t *testing.T) {
	f := NewFetcher()
	_, err := f.ResumeText(context.Background(), "ftp://example.com/resume", "test-agent")
	require.Error(t, err)

	_, err = f.ResumeText(context.Background(), "file:///etc/passwd", "test-agent")
	require.Error(t, err)
}
