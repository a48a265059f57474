package api

import (
	"context"
	"net/http"
)

// LoginResult is what the token endpoint hands back on success.
type LoginResult struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Access   string `json:"access"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges a username and password for an access token.
// Credentials are sent as typed; there is no client-side validation.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		route:  tokenPath,
		path:   tokenPath,
		body:   credentials{Username: username, Password: password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, &Error{Op: "login", Kind: KindDecode, Status: http.StatusOK, Message: "response has no access token"}
	}
	return &out, nil
}
