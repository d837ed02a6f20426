package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		_, _, err := r.FormFile("file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"text": "  First whisk the eggs with the sugar until the mixture is pale and fluffy, then fold in the flour.  ",
		})
	}))
	defer srv.Close()

	tr, err := New(srv.URL+"/v1/", "", "ggml-base").Transcribe(context.Background(), writeAudio(t))
	require.NoError(t, err)

	assert.Equal(t, "ggml-base", gotModel)
	assert.Equal(t, "First whisk the eggs with the sugar until the mixture is pale and fluffy, then fold in the flour.", tr.Text)
	assert.Equal(t, "en", tr.Language)
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model not loaded"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "").Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription")
}

func TestDetectLanguageEmpty(t *testing.T) {
	assert.Empty(t, New("http://localhost", "", "").DetectLanguage("   "))
}
