package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/gateway/httpclient"
	"golang.org/x/oauth2"
)

var (
	ErrEmptyToken   = errors.New("token is empty")
	ErrInvalidToken = errors.New("token rejected by issuer")
)

// Claims is the subset of the userinfo response the service uses.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// OIDCAuthenticator validates bearer tokens by presenting them to the
// issuer's userinfo endpoint.
type OIDCAuthenticator struct {
	config      *oauth2.Config
	issuer      string
	userinfoURL string
	httpClient  *http.Client
}

func NewOIDCAuthenticator(issuer, clientID, clientSecret string, timeout time.Duration) (*OIDCAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}
	issuer = strings.TrimRight(issuer, "/")

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  issuer + "/authorize",
			TokenURL: issuer + "/token",
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &OIDCAuthenticator{
		config:      config,
		issuer:      issuer,
		userinfoURL: issuer + "/userinfo",
		httpClient:  httpclient.New(timeout),
	}, nil
}

// AuthCodeURL is the login redirect for interactive dashboard clients.
func (a *OIDCAuthenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

func (a *OIDCAuthenticator) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	var claims Claims
	err := httpclient.Retry(ctx, 3, 100*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userinfoURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &httpclient.StatusError{Code: resp.StatusCode}
		}
		return json.NewDecoder(resp.Body).Decode(&claims)
	})
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && (statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden) {
			return nil, ErrInvalidToken
		}
		logger.Log.WithError(err).WithField("issuer", a.issuer).Warn("userinfo lookup failed")
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
