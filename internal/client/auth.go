package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"solarops/pkg/solar"
)

// AuthClient wraps the authentication endpoints. It implements both
// api.CredentialExchanger (password grant) and api.TokenValidator
// (test-token).
type AuthClient struct {
	c *Client

	// exchangeClient performs the password grant. It deliberately does
	// NOT use the signing transport: the exchange happens before a
	// token exists, and a 401 from bad credentials is a login error,
	// not a session-expiry event.
	exchangeClient *http.Client
}

// NewAuthClient creates an AuthClient on top of the shared client.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{
		c: c,
		exchangeClient: &http.Client{
			Timeout: c.httpClient.Timeout,
		},
	}
}

// Exchange trades a username/password pair for a bearer token using the
// OAuth2 resource owner password grant, which is the contract of the
// backend's /auth/login/access-token endpoint (form-encoded body,
// {access_token, token_type} response).
//
// A rejected exchange is surfaced as *APIError with the backend's
// detail message so the login form can show it inline.
func (a *AuthClient) Exchange(ctx context.Context, username, password string) (*solar.TokenResponse, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.c.BaseURL() + "/auth/login/access-token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.exchangeClient)
	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, exchangeError(retrieveErr)
		}
		return nil, err
	}

	return &solar.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}, nil
}

// exchangeError maps an oauth2 retrieval failure onto the client's
// error taxonomy, extracting the backend's detail message when present.
func exchangeError(err *oauth2.RetrieveError) error {
	apiErr := &APIError{StatusCode: http.StatusUnauthorized}
	if err.Response != nil {
		apiErr.StatusCode = err.Response.StatusCode
	}
	switch {
	case err.ErrorDescription != "":
		apiErr.Detail = err.ErrorDescription
	case err.ErrorCode != "":
		apiErr.Detail = err.ErrorCode
	default:
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(err.Body, &payload) == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		}
	}
	return apiErr
}

// TestToken calls the remote validation endpoint. The bearer header is
// attached by the signing transport; a 401 or empty payload means the
// stored credential is no longer usable.
func (a *AuthClient) TestToken(ctx context.Context) (*solar.User, error) {
	var user solar.User
	if err := a.c.do(ctx, http.MethodPost, "/auth/login/test-token", nil, struct{}{}, &user); err != nil {
		return nil, err
	}
	if user.ID == 0 && user.Email == "" {
		return nil, errors.New("test-token returned an empty user")
	}
	return &user, nil
}

// RecoverPassword requests a password-recovery email for the address.
func (a *AuthClient) RecoverPassword(ctx context.Context, email string) (*solar.Message, error) {
	var msg solar.Message
	path := "/auth/password-recovery/" + url.PathEscape(email)
	if err := a.c.do(ctx, http.MethodPost, path, nil, struct{}{}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResetPassword completes a recovery flow with the emailed token.
func (a *AuthClient) ResetPassword(ctx context.Context, token, newPassword string) (*solar.Message, error) {
	var msg solar.Message
	body := solar.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := a.c.do(ctx, http.MethodPost, "/auth/reset-password/", nil, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
