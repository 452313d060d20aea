package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionLog_HistoryIsSnapshot(t *testing.T) {
	l := NewActionLog()
	l.Record("navigate('https://example.com')")
	l.Record("click('Sign In')")

	h := l.History()
	h[0] = "tampered"
	l.Record("click('Sign In')")

	assert.Equal(t, []string{
		"navigate('https://example.com')",
		"click('Sign In')",
		"click('Sign In')",
	}, l.History())
}
