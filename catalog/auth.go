package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/indexdata/catbridge/common"
)

// fixed authentication endpoint of the catalog API
var AuthPath = []string{"auth", "login"}

func (g *Gateway) ensureToken(ctx common.ExtendedContext, identity *Identity) (string, error) {
	g.session.mu.Lock()
	defer g.session.mu.Unlock()
	token := g.session.lockedToken(identity)
	if token != "" {
		return token, nil
	}
	err := g.refreshLocked(ctx, identity)
	if err != nil {
		return "", err
	}
	return g.session.token, nil
}

func (g *Gateway) refresh(ctx common.ExtendedContext, identity *Identity) error {
	g.session.mu.Lock()
	defer g.session.mu.Unlock()
	return g.refreshLocked(ctx, identity)
}

// refreshLocked exchanges credentials for a fresh token and stores it
// bound to the identity's username. Transport failures and unexpected
// HTTP statuses are fatal; rejected user credentials are the expected
// "login failed" case and surface as ErrAuthRejected.
func (g *Gateway) refreshLocked(ctx common.ExtendedContext, identity *Identity) error {
	username := g.serviceUsername
	secret := g.serviceSecret
	bound := ""
	if identity != nil {
		username = identity.Username
		secret = identity.Secret
		bound = identity.Username
	}
	params := url.Values{}
	params.Set("username", username)
	params.Set("password", secret)
	authUrl := g.requestUrl(AuthPath) + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, authUrl, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept-Language", g.acceptLanguage)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		ctx.Logger().Error("token refresh failed", "error", err, "url", g.requestUrl(AuthPath))
		return fmt.Errorf("token refresh failed: %w", err)
	}
	defer g.closeBody(ctx, resp)
	body, err := g.readResponse(resp.Body)
	if err != nil {
		ctx.Logger().Error("token refresh failed", "error", err, "url", g.requestUrl(AuthPath))
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if identity != nil {
			// bad patron credentials, expected during login
			ctx.Logger().Info("patron credentials rejected", "status", resp.Status, "username", username)
			return ErrAuthRejected
		}
		ctx.Logger().Error("service account authentication failed", "status", resp.Status, "body", string(body))
		return &ProtocolError{resp.StatusCode, resp.Status, body}
	}
	var tokenResponse struct {
		Token string `json:"token"`
	}
	err = json.Unmarshal(body, &tokenResponse)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if tokenResponse.Token == "" {
		return errors.New("token refresh failed: no token in response")
	}
	g.session.lockedSetToken(tokenResponse.Token, bound)
	return nil
}
