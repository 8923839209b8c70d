package vinwiki

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testVIN   = "WBAPL33579A406957"
	testToken = "T"
	testUUID  = "u1"

	authOK = `{"status":"ok","token":{"token":"T"},"person":{"uuid":"u1","username":"u"}}`
)

var fixedNow = time.Date(2023, 3, 12, 15, 4, 5, 0, time.UTC)

// stubTransport answers requests from a table keyed by "METHOD path" and
// records every call it receives.
type stubTransport struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     []Request
}

func newStub() *stubTransport {
	return &stubTransport{responses: make(map[string]string)}
}

func (s *stubTransport) on(method, path, body string) *stubTransport {
	s.responses[method+" "+path] = body
	return s
}

func (s *stubTransport) Do(_ context.Context, req Request) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}

	path := strings.TrimPrefix(req.URL, DefaultBaseURL)
	body, ok := s.responses[req.Method+" "+path]
	if !ok {
		return nil, &APIError{StatusCode: http.StatusNotFound}
	}
	return []byte(body), nil
}

func (s *stubTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubTransport) lastCall(t *testing.T) Request {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls, "expected at least one call")
	return s.calls[len(s.calls)-1]
}

func newTestClient(t *testing.T, stub *stubTransport) *Client {
	t.Helper()
	client, err := NewClient(WithTransport(stub), withClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return client
}

// newAuthedClient returns a client that already holds a session. The login
// call is removed from the stub's call log.
func newAuthedClient(t *testing.T, stub *stubTransport) *Client {
	t.Helper()
	stub.on(http.MethodPost, "auth/authenticate", authOK)

	client := newTestClient(t, stub)
	_, err := client.Authenticate(context.Background(), "user", "pass")
	require.NoError(t, err)

	stub.mu.Lock()
	stub.calls = nil
	stub.mu.Unlock()
	return client
}
