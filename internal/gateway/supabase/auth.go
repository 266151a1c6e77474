package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
)

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// authResponse is the GoTrue reply to signup and token grants. When email
// confirmation is on, signup returns the bare user object with no tokens.
type authResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	User        *authUser `json:"user"`

	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) identityFrom(resp authResponse) gateway.Identity {
	user := authUser{ID: resp.ID, Email: resp.Email}
	if resp.User != nil {
		user = *resp.User
	}
	ident := gateway.Identity{UserID: user.ID, Email: user.Email}
	if resp.AccessToken != "" {
		ident.Session = gateway.Session{
			AccessToken: resp.AccessToken,
			ExpiresAt:   c.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		}
		c.setSession(ident.Session)
	}
	return ident
}

func (c *Client) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/auth/v1/signup", payload: payload}, &resp); err != nil {
		return gateway.Identity{}, err
	}
	ident := c.identityFrom(resp)
	if ident.UserID == "" {
		return gateway.Identity{}, fmt.Errorf("signup response carries no user id")
	}
	return ident, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	payload := map[string]string{"email": email, "password": password}
	q := url.Values{"grant_type": {"password"}}
	var resp authResponse
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/auth/v1/token", query: q, payload: payload}, &resp); err != nil {
		return gateway.Identity{}, err
	}
	ident := c.identityFrom(resp)
	if ident.Session.AccessToken == "" {
		return gateway.Identity{}, fmt.Errorf("token response carries no access token")
	}
	return ident, nil
}
