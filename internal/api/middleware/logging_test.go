package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	t.Run("assigns a request id and logs the response", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest("GET", "/api/deck/public", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		requestID := rr.Header().Get("X-Request-ID")
		require.NotEmpty(t, requestID)

		logged := buf.String()
		assert.Contains(t, logged, "request_id="+requestID)
		assert.Contains(t, logged, "path=/api/deck/public")
		assert.Contains(t, logged, "status=418")
		assert.Contains(t, logged, "size=5")
	})

	t.Run("keeps a caller-supplied request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "upstream-id", rr.Header().Get("X-Request-ID"))
		assert.Contains(t, buf.String(), "request_id=upstream-id")
	})
}
