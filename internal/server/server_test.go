package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDigest struct {
	mock.Mock
}

func (m *MockDigest) RunDigest(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDigest) GetMetrics() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDigest) Reports(ctx context.Context) ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func serve(t *testing.T, digest Digest, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewRouter(digest).ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &MockDigest{}, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMetrics(t *testing.T) {
	digest := &MockDigest{}
	digest.On("GetMetrics").Return(`{"total_mentions":3}`)

	rec := serve(t, digest, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_mentions":3}`, rec.Body.String())
}

func TestReports(t *testing.T) {
	tests := []struct {
		name         string
		names        []string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Archived reports",
			names:        []string{"reports/daily/a.json"},
			expectedCode: http.StatusOK,
			expectedBody: `{"reports":["reports/daily/a.json"]}`,
		},
		{
			name:         "Empty archive",
			expectedCode: http.StatusOK,
			expectedBody: `{"reports":[]}`,
		},
		{
			name:         "Archive failure",
			err:          errors.New("db locked"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"db locked"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := &MockDigest{}
			digest.On("Reports").Return(tt.names, tt.err)

			rec := serve(t, digest, http.MethodGet, "/reports")

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestTrigger(t *testing.T) {
	done := make(chan struct{})
	digest := &MockDigest{}
	digest.On("RunDigest").Return(nil).Run(func(mock.Arguments) { close(done) }).Once()

	rec := serve(t, digest, http.MethodPost, "/trigger")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("digest was not triggered")
	}
	digest.AssertExpectations(t)
}

func TestTrigger_MethodNotAllowed(t *testing.T) {
	digest := &MockDigest{}
	rec := serve(t, digest, http.MethodGet, "/trigger")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	digest.AssertNotCalled(t, "RunDigest")
}

func TestNew(t *testing.T) {
	srv := New("9090", &MockDigest{})
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
}
