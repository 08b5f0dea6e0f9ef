package authserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Both services use the OAuth implicit grant, so the token comes back in
// the URL fragment, which never reaches the server. The landing page runs
// a tiny script that re-requests /token with the fragment as a query
// parameter.
const fragmentPage = `<!DOCTYPE html>
<html>
<head><title>Authentication</title></head>
<body>
<p>Завершение авторизации...</p>
<script>
	const params = new URLSearchParams(window.location.hash.substring(1));
	const token = params.get(%q);
	if (token) {
		window.location.href = "/token?" + %q + "=" + encodeURIComponent(token);
	} else {
		document.body.innerHTML = "<h1>Authentication Failed</h1><p>No token found. Please try again.</p>";
	}
</script>
</body>
</html>`

const successPage = `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful</h1>
<p>You can close this window now.</p>
</body>
</html>`

const failurePage = `<!DOCTYPE html>
<html>
<head><title>Authentication Failed</title></head>
<body>
<h1>Authentication Failed</h1>
<p>No token found in the request. Please try again.</p>
</body>
</html>`

// Server catches one OAuth redirect on localhost and extracts the access
// token from it.
type Server struct {
	port  int
	param string
	log   *slog.Logger
}

// New creates a callback server listening on the given port. param is the
// fragment parameter carrying the token, usually "access_token".
func New(port int, param string, log *slog.Logger) *Server {
	return &Server{port: port, param: param, log: log}
}

// Wait serves the callback pages until a token arrives or ctx is done,
// then shuts the listener down and returns the token.
func (s *Server) Wait(ctx context.Context) (string, error) {
	tokenCh := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get(s.param)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if token == "" {
			w.Write([]byte(failurePage))
			return
		}

		w.Write([]byte(successPage))
		select {
		case tokenCh <- token:
		default:
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, fragmentPage, s.param, s.param)
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Info("authentication callback server listening", "port", s.port)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	select {
	case token := <-tokenCh:
		return token, nil
	case err := <-errCh:
		return "", fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
