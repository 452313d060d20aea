package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nbenliogludev/webmancer/internal/config"
)

const loginPage = `<!doctype html>
<html><body>
  <h1>Sign in to Example</h1>
  <label for="login_field">Username or email address</label>
  <input type="text" id="login_field" name="login">
  <input type="password" id="password" name="password">
  <input type="text" id="first-name-input">
  <button id="submit" onclick="document.title = 'done:' + document.getElementById('login_field').value">Sign in</button>
  <span onclick="document.title = 'shop'">Bob's Shop</span>
</body></html>`

// Runs against a real browser. Enable with WEBMANCER_E2E=1.
func TestActions_RealBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if os.Getenv("WEBMANCER_E2E") == "" {
		t.Skip("WEBMANCER_E2E not set")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, loginPage)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig().Browser
	cfg.Headless = true
	cfg.TypeDelay = 5 * time.Millisecond
	cfg.KeyPressDelay = 0
	logger := zaptest.NewLogger(t)

	mgr := NewManager(cfg, logger)
	a := NewActions(mgr, cfg, logger)
	ctx := context.Background()

	require.True(t, a.StartSession(ctx), a.LastError())
	defer a.StopSession(ctx)

	require.True(t, a.Navigate(ctx, srv.URL, NavigateOptions{}), a.LastError())
	require.True(t, a.FillByDescription(ctx, "Username or email address", "octocat"), a.LastError())
	require.True(t, a.FillByDescription(ctx, "Password", "s3cret"), a.LastError())
	require.True(t, a.FillByDescription(ctx, "First Name", "Ada"), a.LastError())
	require.True(t, a.ClickByDescription(ctx, "Sign in"), a.LastError())

	title, err := mgr.page.Title()
	require.NoError(t, err)
	assert.Equal(t, "done:octocat", title)

	// A plain span has no role, so only the text XPath strategies can reach it.
	require.True(t, a.ClickByDescription(ctx, "Bob's Shop"), a.LastError())
	title, err = mgr.page.Title()
	require.NoError(t, err)
	assert.Equal(t, "shop", title)

	assert.False(t, a.ClickByDescription(ctx, "Nonexistent control"))
	assert.Contains(t, a.LastError(), "Nonexistent control")

	assert.False(t, a.Navigate(ctx, srv.URL+"/missing", NavigateOptions{}))
	assert.Contains(t, a.LastError(), "404")

	assert.Equal(t, []string{
		"navigate('" + srv.URL + "')",
		"fill('Username or email address')",
		"fill('Password')",
		"fill('First Name')",
		"click('Sign in')",
		"click('Bob's Shop')",
	}, a.History())
}
