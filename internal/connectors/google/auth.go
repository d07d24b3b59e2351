package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/custodia-labs/driveload/internal/core/domain"
	"github.com/custodia-labs/driveload/internal/logger"
)

// DriveReadonlyScope is the only scope driveload ever requests.
// Service account credentials are limited to it as well.
const DriveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"

// Default on-disk locations for each credential source, used when the
// corresponding path is left empty.
const (
	DefaultCredentialsPath       = "credentials.json"
	DefaultTokenPath             = "token.json"
	DefaultServiceAccountKeyPath = "service_account_key.json"
)

// ConsentFlow obtains a user token interactively. It exists as a seam so
// tests can supply a canned token instead of opening a browser.
type ConsentFlow func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// CredentialConfig configures credential resolution. Direct values take
// precedence over file paths, first non-nil source wins per field.
type CredentialConfig struct {
	// ClientConfig is the OAuth client application config JSON.
	ClientConfig []byte
	// AuthorizedUser is a previously saved user token JSON.
	AuthorizedUser []byte
	// ServiceAccountKey is a service account key JSON.
	ServiceAccountKey []byte

	// CredentialsPath, TokenPath and ServiceAccountKeyPath are read when
	// the corresponding direct value is absent. Empty paths fall back to
	// the package defaults.
	CredentialsPath       string
	TokenPath             string
	ServiceAccountKeyPath string

	// Cloud marks an ephemeral environment; tokens are never persisted.
	Cloud bool

	// Consent overrides the interactive consent flow. Defaults to a
	// local-server flow that prints an authorization URL.
	Consent ConsentFlow
}

// CredentialSource resolves an oauth2.TokenSource for the Drive API.
//
// Resolution order: a saved authorized-user token is used (and refreshed)
// first; failing that, a service account key; failing that, the interactive
// consent flow against the client application config.
type CredentialSource struct {
	clientConfig      []byte
	authorizedUser    []byte
	serviceAccountKey []byte
	tokenPath         string
	cloud             bool
	consent           ConsentFlow
}

// NewCredentialSource builds a CredentialSource from the given config.
// It fails with domain.ErrAuthConfiguration when neither a client config
// nor a service account key can be found in the config or on disk.
func NewCredentialSource(cfg CredentialConfig) (*CredentialSource, error) {
	credentialsPath := cfg.CredentialsPath
	if credentialsPath == "" {
		credentialsPath = DefaultCredentialsPath
	}
	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = DefaultTokenPath
	}
	keyPath := cfg.ServiceAccountKeyPath
	if keyPath == "" {
		keyPath = DefaultServiceAccountKeyPath
	}

	s := &CredentialSource{
		clientConfig:      orFile(cfg.ClientConfig, credentialsPath),
		authorizedUser:    orFile(cfg.AuthorizedUser, tokenPath),
		serviceAccountKey: orFile(cfg.ServiceAccountKey, keyPath),
		tokenPath:         tokenPath,
		cloud:             cfg.Cloud,
		consent:           cfg.Consent,
	}
	if s.consent == nil {
		s.consent = localServerFlow
	}

	if s.clientConfig == nil && s.serviceAccountKey == nil {
		return nil, domain.ErrAuthConfiguration
	}

	return s, nil
}

// orFile returns direct when set, otherwise the file contents at path if it
// exists, otherwise nil.
func orFile(direct []byte, path string) []byte {
	if len(direct) > 0 {
		return direct
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// Obtain resolves a valid token source, refreshing and persisting a saved
// user token when needed. Service account credentials are never persisted.
func (s *CredentialSource) Obtain(ctx context.Context) (oauth2.TokenSource, error) {
	if s.authorizedUser != nil {
		ts, err := s.fromAuthorizedUser(ctx)
		if err == nil {
			return ts, nil
		}
		if s.clientConfig == nil && s.serviceAccountKey == nil {
			return nil, err
		}
		logger.Warn("saved token unusable (%v), falling back", err)
	}

	if s.serviceAccountKey != nil {
		conf, err := google.JWTConfigFromJSON(s.serviceAccountKey, DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		logger.Debug("using service account credentials")
		return conf.TokenSource(ctx), nil
	}

	return s.fromConsent(ctx)
}

// authorizedUserInfo mirrors the "authorized_user" JSON written by Google
// tooling and by persistToken below.
type authorizedUserInfo struct {
	Type         string    `json:"type,omitempty"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	AccessToken  string    `json:"token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func (s *CredentialSource) fromAuthorizedUser(ctx context.Context) (oauth2.TokenSource, error) {
	var info authorizedUserInfo
	if err := json.Unmarshal(s.authorizedUser, &info); err != nil {
		return nil, fmt.Errorf("parse authorized user info: %w", err)
	}
	if info.ClientID == "" {
		return nil, fmt.Errorf("authorized user info has no client_id")
	}

	conf := &oauth2.Config{
		ClientID:     info.ClientID,
		ClientSecret: info.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{DriveReadonlyScope},
	}
	token := &oauth2.Token{
		AccessToken:  info.AccessToken,
		RefreshToken: info.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       info.Expiry,
	}

	if token.Valid() {
		logger.Debug("using saved user token")
		return conf.TokenSource(ctx, token), nil
	}

	if token.RefreshToken == "" {
		return nil, fmt.Errorf("saved token expired and has no refresh token")
	}

	// Refresh eagerly so a bad refresh token surfaces here, then persist
	// the fresh token for the next run.
	ts := conf.TokenSource(ctx, token)
	fresh, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	logger.Debug("refreshed saved user token")
	s.persistToken(conf, fresh)

	return oauth2.ReuseTokenSource(fresh, ts), nil
}

func (s *CredentialSource) fromConsent(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := google.ConfigFromJSON(s.clientConfig, DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}

	token, err := s.consent(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("consent flow: %w", err)
	}
	s.persistToken(conf, token)

	return conf.TokenSource(ctx, token), nil
}

// persistToken writes the user token for reuse across runs. Skipped in
// cloud mode; never called for service account credentials.
func (s *CredentialSource) persistToken(conf *oauth2.Config, token *oauth2.Token) {
	if s.cloud {
		return
	}

	info := authorizedUserInfo{
		Type:         "authorized_user",
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		RefreshToken: token.RefreshToken,
		AccessToken:  token.AccessToken,
		Expiry:       token.Expiry,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logger.Warn("serialise token: %v", err)
		return
	}
	if err := os.WriteFile(s.tokenPath, data, 0o600); err != nil {
		logger.Warn("save token to %s: %v", s.tokenPath, err)
		return
	}
	logger.Info("saved user token to %s", s.tokenPath)
}

// localServerFlow runs the interactive consent flow: it listens on a
// loopback port, prints the authorization URL, and waits for the browser
// redirect carrying the authorization code.
func localServerFlow(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	defer ln.Close()

	conf.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth callback without code")
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		codeCh <- code
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln) //nolint:errcheck // shut down below
	defer srv.Close()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "Visit this URL to authorize driveload:\n\n  %s\n\n", authURL)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case code := <-codeCh:
		return conf.Exchange(ctx, code)
	}
}
