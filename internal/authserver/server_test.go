package authserver_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/authserver"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitListening(t *testing.T, port int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server never started listening")
}

func TestWaitCapturesToken(t *testing.T) {
	port := freePort(t)
	s := authserver.New(port, "access_token", testLogger())

	type result struct {
		token string
		err   error
	}
	resultCh := make(chan result, 1)
	go func() {
		token, err := s.Wait(context.Background())
		resultCh <- result{token, err}
	}()

	waitListening(t, port)

	// The landing page carries the fragment-extraction script.
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/login", port))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "access_token")

	// The script re-requests /token with the token as a query parameter.
	resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/token?access_token=secret123", port))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Authentication Successful")

	select {
	case res := <-resultCh:
		require.NoError(t, res.err)
		assert.Equal(t, "secret123", res.token)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after token capture")
	}
}

func TestWaitCancelled(t *testing.T) {
	port := freePort(t)
	s := authserver.New(port, "access_token", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := s.Wait(ctx)
		errCh <- err
	}()

	waitListening(t, port)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestTokenMissingParam(t *testing.T) {
	port := freePort(t)
	s := authserver.New(port, "access_token", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Wait(ctx)
		close(done)
	}()

	waitListening(t, port)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/token", port))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Authentication Failed")

	cancel()
	<-done
}
