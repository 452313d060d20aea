package agent

import (
	"errors"
	"fmt"

	"github.com/nbenliogludev/webmancer/internal/config"
)

var ErrMissingCredential = errors.New("credential is not configured")

// Credentials hands login details to the model on request. Values come
// only from the configuration it was built with.
type Credentials struct {
	cfg config.CredentialsConfig
}

func NewCredentials(cfg config.CredentialsConfig) *Credentials {
	return &Credentials{cfg: cfg}
}

func (c *Credentials) GithubUsername() (string, error) {
	if c.cfg.GithubUsername == "" {
		return "", fmt.Errorf("%w: set credentials.github_username or GITHUB_USERNAME", ErrMissingCredential)
	}
	return c.cfg.GithubUsername, nil
}

func (c *Credentials) GithubPassword() (string, error) {
	if c.cfg.GithubPassword == "" {
		return "", fmt.Errorf("%w: set credentials.github_password or GITHUB_PASSWORD", ErrMissingCredential)
	}
	return c.cfg.GithubPassword, nil
}
