package semaphore

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// Credentials carries the authentication state for one call. It is threaded
// explicitly through every operation so that calls stay composable; there is
// no ambient session.
type Credentials struct {
	SessionCookie string
	APIToken      string
}

func TokenCredentials(token string) Credentials {
	return Credentials{APIToken: token}
}

func (c *Credentials) apply(req *http.Request) error {
	switch {
	case c.APIToken != "":
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	case c.SessionCookie != "":
		req.Header.Set("Cookie", c.SessionCookie)
	default:
		return apperrors.New(apperrors.CodeAuthError, "either session_cookie or api_token must be provided")
	}
	return nil
}

// SessionBased reports whether the credentials came from an interactive
// login and therefore need a logout.
func (c *Credentials) SessionBased() bool {
	return c.APIToken == "" && c.SessionCookie != ""
}

type loginRequest struct {
	Auth     string `json:"auth"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a session cookie. The server
// answers 204 with a Set-Cookie header on success.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	resp, raw, err := c.roundTrip(ctx, nil, http.MethodPost, "/api/auth/login",
		loginRequest{Auth: username, Password: password})
	if err != nil {
		return Credentials{}, err
	}
	if resp.StatusCode != http.StatusNoContent {
		return Credentials{}, apperrors.Wrap(
			&APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))},
			apperrors.CodeAuthError, "login failed")
	}
	cookie := resp.Header.Get("Set-Cookie")
	if cookie == "" {
		return Credentials{}, apperrors.New(apperrors.CodeAuthError, "login succeeded but no session cookie was returned")
	}
	if i := strings.Index(cookie, ";"); i >= 0 {
		cookie = cookie[:i]
	}
	return Credentials{SessionCookie: cookie}, nil
}

// Logout invalidates a session. Token credentials have no session to
// destroy, but the endpoint accepts them as well.
func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	return c.do(ctx, &creds, http.MethodPost, "/api/auth/logout", nil, nil)
}
