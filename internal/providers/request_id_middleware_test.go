package providers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	cacheTestLogger
	mu    sync.Mutex
	types []TypeEnum
}

func (l *recordingLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = append(l.types, t)
}

func TestRequestLogMiddleware_AssignsID(t *testing.T) {
	logger := &recordingLogger{}
	mw := RequestLogMiddleware(logger, dummyHandler())

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))

	id := rr.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, []TypeEnum{TypeGet}, logger.types)
}

func TestRequestLogMiddleware_KeepsValidIncomingID(t *testing.T) {
	logger := &recordingLogger{}
	mw := RequestLogMiddleware(logger, dummyHandler())
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/history", nil)
	req.Header.Set(RequestIDHeader, id)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, id, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, []TypeEnum{TypePost}, logger.types)
}

func TestRequestLogMiddleware_ReplacesGarbageID(t *testing.T) {
	mw := RequestLogMiddleware(&recordingLogger{}, dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\nInjected: yes")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.NotEqual(t, "not-a-uuid\nInjected: yes", rr.Header().Get(RequestIDHeader))
	_, err := uuid.Parse(rr.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
