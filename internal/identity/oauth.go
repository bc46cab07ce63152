package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// CallbackPath is where the provider redirects after OAuth consent.
const CallbackPath = "/auth/callback"

const callbackPage = `<!doctype html><html><body style="font-family:sans-serif">
<h3>%s</h3><p>You can close this window and return to the terminal.</p></body></html>`

// newPKCE returns a code verifier and its S256 challenge.
func newPKCE() (verifier, challenge string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate code verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(buf)
	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}

type callbackResult struct {
	code string
	err  error
}

func callbackRouter(results chan<- callbackResult) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		var res callbackResult
		switch {
		case q.Get("error") != "":
			desc := q.Get("error_description")
			if desc == "" {
				desc = q.Get("error")
			}
			res.err = fmt.Errorf("oauth sign in failed: %s", desc)
		case q.Get("code") == "":
			res.err = errors.New("oauth callback carried no code")
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, callbackPage, "Sign in failed")
		} else {
			fmt.Fprintf(w, callbackPage, "Signed in")
		}

		select {
		case results <- res:
		default:
		}
	}).Methods(http.MethodGet)
	return r
}

// SignInWithOAuth runs the PKCE flow: it serves a local callback, hands the
// authorize URL to the browser opener, waits for the code and exchanges it.
func (s *Store) SignInWithOAuth(ctx context.Context, provider string) (*core.User, error) {
	verifier, challenge, err := newPKCE()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.callbackPort))
	if err != nil {
		return nil, fmt.Errorf("start oauth callback listener: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	redirect := fmt.Sprintf("http://localhost:%d%s", port, CallbackPath)

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackRouter(results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("oauth callback server stopped", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := s.auth.AuthorizeURL(provider, challenge, redirect)
	s.log.Info("starting oauth sign in", "provider", provider, "redirect", redirect)
	if err := s.openBrowser(authURL); err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	sess, err := s.auth.PKCEGrant(ctx, res.code, verifier)
	if err != nil {
		return nil, err
	}
	s.setSession(sess)
	u := sess.User
	return &u, nil
}
