package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/transport"
)

// ErrConfirmationRequired is returned by sign up when the account exists but
// the email must be confirmed before a session is issued.
var ErrConfirmationRequired = errors.New("check your email to confirm your account")

// AuthError is an error reported by the identity provider.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth error (status %d)", e.Status)
	}
	return e.Message
}

// GoTrue is a client for the Supabase auth REST API.
type GoTrue struct {
	http    *transport.Client
	baseURL string
}

// NewGoTrue creates a client for the project at supabaseURL authenticated
// with the public anon key.
func NewGoTrue(supabaseURL, anonKey string, opts ...transport.Option) *GoTrue {
	base := strings.TrimRight(supabaseURL, "/") + "/auth/v1"
	opts = append([]transport.Option{
		transport.WithBaseURL(base),
		transport.WithHeader("apikey", anonKey),
		transport.WithHeader("Authorization", "Bearer "+anonKey),
	}, opts...)
	return &GoTrue{http: transport.NewClient(opts...), baseURL: base}
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
	User         core.User `json:"user"`
}

func (t tokenResponse) session(now time.Time) core.Session {
	s := core.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		User:         t.User,
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	default:
		if claims, err := ParseClaims(t.AccessToken); err == nil {
			s.ExpiresAt = claims.Expiry()
		}
	}
	return s
}

func (g *GoTrue) call(ctx context.Context, method, path string, query url.Values, body any, accessToken string, result any) error {
	req, err := transport.NewRequest(method, path)
	if err != nil {
		return err
	}
	if query != nil {
		req.WithQuery(query)
	}
	if body != nil {
		if err := req.SetJSONBody(body); err != nil {
			return err
		}
	}
	if accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+accessToken)
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return authErrorFrom(resp)
	}
	if result != nil && len(resp.Body()) > 0 {
		return resp.DecodeJSON(result)
	}
	return nil
}

func authErrorFrom(resp *transport.Response) *AuthError {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return &AuthError{Status: resp.Status(), Message: rawErrorMessage(resp)}
	}

	e := &AuthError{Status: resp.Status(), Code: body.ErrorCode}
	if e.Code == "" {
		e.Code = body.Error
	}
	for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = rawErrorMessage(resp)
	}
	return e
}

// maxRawErrorLength bounds how much of an unparsed error body is shown.
const maxRawErrorLength = 200

// rawErrorMessage describes a failed response whose body is not a GoTrue
// error: the body itself when it is short text, else the status text.
func rawErrorMessage(resp *transport.Response) string {
	text := strings.TrimSpace(string(resp.Body()))
	if text == "" || strings.HasPrefix(text, "<") || strings.HasPrefix(text, "{") {
		if st := http.StatusText(resp.Status()); st != "" {
			return st
		}
		return fmt.Sprintf("status %d", resp.Status())
	}
	if r := []rune(text); len(r) > maxRawErrorLength {
		text = string(r[:maxRawErrorLength]) + "…"
	}
	return text
}

// SignUp creates an account. It returns ErrConfirmationRequired along with
// the user when the project requires email confirmation.
func (g *GoTrue) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*core.Session, *core.User, error) {
	payload := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	var raw json.RawMessage
	if err := g.call(ctx, http.MethodPost, "/signup", nil, payload, "", &raw); err != nil {
		return nil, nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err == nil && tr.AccessToken != "" {
		s := tr.session(time.Now())
		return &s, &s.User, nil
	}

	var u core.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, nil, fmt.Errorf("decode sign up response: %w", err)
	}
	return nil, &u, ErrConfirmationRequired
}

// PasswordGrant signs in with email and password.
func (g *GoTrue) PasswordGrant(ctx context.Context, email, password string) (core.Session, error) {
	return g.token(ctx, "password", map[string]string{"email": email, "password": password})
}

// RefreshGrant exchanges a refresh token for a new session.
func (g *GoTrue) RefreshGrant(ctx context.Context, refreshToken string) (core.Session, error) {
	return g.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// PKCEGrant exchanges an OAuth authorization code for a session.
func (g *GoTrue) PKCEGrant(ctx context.Context, authCode, verifier string) (core.Session, error) {
	return g.token(ctx, "pkce", map[string]string{"auth_code": authCode, "code_verifier": verifier})
}

func (g *GoTrue) token(ctx context.Context, grant string, body any) (core.Session, error) {
	var tr tokenResponse
	if err := g.call(ctx, http.MethodPost, "/token", url.Values{"grant_type": {grant}}, body, "", &tr); err != nil {
		return core.Session{}, err
	}
	if tr.AccessToken == "" {
		return core.Session{}, errors.New("identity provider returned no access token")
	}
	return tr.session(time.Now()), nil
}

// User fetches the user owning accessToken.
func (g *GoTrue) User(ctx context.Context, accessToken string) (core.User, error) {
	var u core.User
	if err := g.call(ctx, http.MethodGet, "/user", nil, nil, accessToken, &u); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// Logout revokes the session's refresh tokens.
func (g *GoTrue) Logout(ctx context.Context, accessToken string) error {
	return g.call(ctx, http.MethodPost, "/logout", nil, nil, accessToken, nil)
}

// AuthorizeURL is the browser URL that starts an OAuth PKCE flow.
func (g *GoTrue) AuthorizeURL(provider, challenge, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "s256")
	q.Set("redirect_to", redirectTo)
	return g.baseURL + "/authorize?" + q.Encode()
}
