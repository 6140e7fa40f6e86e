package ocrspace_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	"github.com/331515Stud/tg-bot-for-gf/ocrspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(url string, apiKey string) *ocrspace.Backend {
	return ocrspace.NewBackend(apiKey,
		ocrspace.WithEndpoint(url),
		ocrspace.WithRateLimit(1000), // don't slow the tests down
	)
}

func recognize(t *testing.T, b *ocrspace.Backend, req ocrbot.RecognitionRequest) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.Recognize(ctx, req)
}

func TestBackend_Recognize(t *testing.T) {
	t.Parallel()

	t.Run("sends the documented multipart request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1 << 20))

			assert.Equal(t, "rus", r.FormValue("language"))
			assert.Equal(t, "false", r.FormValue("isOverlayRequired"))
			assert.Equal(t, "JPG", r.FormValue("filetype"))
			assert.Equal(t, "true", r.FormValue("detectOrientation"))
			assert.Equal(t, "true", r.FormValue("scale"))
			assert.Equal(t, "secret", r.FormValue("apikey"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "image.jpg", header.Filename)
			assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

			w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":"привет мир"}]}`))
		}))
		defer server.Close()

		text, err := recognize(t, newBackend(server.URL, "secret"), ocrbot.RecognitionRequest{
			Image:     []byte("fake-jpeg-bytes"),
			Languages: []string{ocrbot.LangRussian},
		})
		require.NoError(t, err)
		assert.Equal(t, "привет мир", text)
	})

	t.Run("empty api key is sent as the anonymous tier", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, ok := r.MultipartForm.Value["apikey"]
			assert.True(t, ok, "apikey field must be present even when empty")
			assert.Empty(t, r.FormValue("apikey"))
			w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":"ok"}]}`))
		}))
		defer server.Close()

		text, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	})

	t.Run("defaults the language to eng", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "eng", r.FormValue("language"))
			w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":""}]}`))
		}))
		defer server.Close()

		_, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.NoError(t, err)
	})

	t.Run("provider processing error surfaces as recognition error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"IsErroredOnProcessing":true,"ErrorMessage":["Image too large","Try a smaller one"]}`))
		}))
		defer server.Close()

		_, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.Error(t, err)
		assert.Equal(t, ocrbot.ERECOGNITION, ocrbot.ErrorCode(err))
		assert.Contains(t, ocrbot.ErrorMessage(err), "Image too large")
	})

	t.Run("transport failure surfaces as recognition error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.Error(t, err)
		assert.Equal(t, ocrbot.ERECOGNITION, ocrbot.ErrorCode(err))
	})

	t.Run("empty parsed text is a successful empty result", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":""}]}`))
		}))
		defer server.Close()

		text, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("malformed response body is a recognition error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))
		defer server.Close()

		_, err := recognize(t, newBackend(server.URL, ""), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.Error(t, err)
		assert.Equal(t, ocrbot.ERECOGNITION, ocrbot.ErrorCode(err))
	})

	t.Run("respects the configured timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"IsErroredOnProcessing":false,"ParsedResults":[{"ParsedText":"late"}]}`))
		}))
		defer server.Close()

		b := ocrspace.NewBackend("",
			ocrspace.WithEndpoint(server.URL),
			ocrspace.WithRateLimit(1000),
			ocrspace.WithTimeout(20*time.Millisecond),
		)

		_, err := b.Recognize(context.Background(), ocrbot.RecognitionRequest{Image: []byte("x")})
		require.Error(t, err)
		assert.Equal(t, ocrbot.ERECOGNITION, ocrbot.ErrorCode(err))
	})
}

func TestBackend_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ocrspace", ocrspace.NewBackend("").Name())
}
