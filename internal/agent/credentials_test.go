package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbenliogludev/webmancer/internal/config"
)

func TestCredentials(t *testing.T) {
	t.Setenv("GITHUB_PASSWORD", "from-environment")

	c := NewCredentials(config.CredentialsConfig{GithubUsername: "octocat"})

	user, err := c.GithubUsername()
	require.NoError(t, err)
	assert.Equal(t, "octocat", user)

	_, err = c.GithubPassword()
	assert.ErrorIs(t, err, ErrMissingCredential)
}
