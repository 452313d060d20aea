package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/page"
	"github.com/nbenliogludev/webmancer/internal/page/pagetest"
)

func fill(t *testing.T, p *pagetest.Page, field, text string) Result {
	t.Helper()
	return NewFillResolver(zap.NewNop()).Resolve(context.Background(), p, field, text)
}

func TestFillResolver_StrategyOrder(t *testing.T) {
	assert.Equal(t, []string{
		"label-for-textbox",
		"placeholder",
		"label",
		"placeholder-attribute",
		"name-or-id",
		"label-target",
		"textarea",
		"aria-label-or-title",
		"contenteditable",
		"credential-heuristic",
		"keyword",
	}, strategyNames(NewFillResolver(zap.NewNop()).cascade))
}

func TestFillResolver_LabelForTextbox(t *testing.T) {
	label := pagetest.NewElement("label", "for", "user")
	input := pagetest.NewElement("input", "id", "user")
	p := pagetest.New().
		On(pagetest.TextKey("Username", false), label).
		On(pagetest.RoleKey(page.RoleTextbox, "Username", false), input)

	res := fill(t, p, "Username", "octocat")

	require.True(t, res.Success)
	assert.Equal(t, "label-for-textbox", res.Strategy)
	assert.Equal(t, "octocat", input.Value)
	assert.Zero(t, label.Fills)
}

func TestFillResolver_LabelWithoutForFallsThrough(t *testing.T) {
	label := pagetest.NewElement("label")
	input := pagetest.NewElement("input", "placeholder", "Search docs")
	p := pagetest.New().
		On(pagetest.TextKey("Search", false), label).
		On(pagetest.PlaceholderKey("Search", false), input)

	res := fill(t, p, "Search", "playwright")

	require.True(t, res.Success)
	assert.Equal(t, "placeholder", res.Strategy)
	assert.Equal(t, "playwright", input.Value)
	assert.False(t, p.Issued(pagetest.RoleKey(page.RoleTextbox, "Search", false)))
}

func TestFillResolver_TextThatIsNotALabelFallsThrough(t *testing.T) {
	heading := pagetest.NewElement("h2", "for", "ignored")
	input := pagetest.NewElement("input")
	p := pagetest.New().
		On(pagetest.TextKey("Email", false), heading).
		On(pagetest.LabelKey("Email", false), input)

	res := fill(t, p, "Email", "me@example.com")

	require.True(t, res.Success)
	assert.Equal(t, "label", res.Strategy)
	assert.Equal(t, "me@example.com", input.Value)
}

func TestFillResolver_AttributeStrategies(t *testing.T) {
	const field = "Zip"
	e := Escape(field)
	tests := []struct {
		strategy string
		key      string
	}{
		{"placeholder-attribute", pagetest.SelectorKey(inputPlaceholderContains(e))},
		{"name-or-id", pagetest.SelectorKey(inputNameOrIDContains(e))},
		{"textarea", pagetest.SelectorKey(textareaContains(e))},
		{"aria-label-or-title", pagetest.SelectorKey(inputAriaOrTitleContains(e))},
		{"contenteditable", pagetest.SelectorKey(contentEditableHasText(e))},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			target := pagetest.NewElement("input")
			p := pagetest.New().On(tt.key, target)

			res := fill(t, p, field, "94107")

			require.True(t, res.Success)
			assert.Equal(t, tt.strategy, res.Strategy)
			assert.Equal(t, "94107", target.Value)
		})
	}
}

func TestFillResolver_LabelTargetViaFor(t *testing.T) {
	label := pagetest.NewElement("label", "for", "o'brien")
	input := pagetest.NewElement("input")
	p := pagetest.New().
		On(pagetest.SelectorKey(labelHasText("Surname")), label).
		On(pagetest.SelectorKey(`[id='o\'brien']`), input)

	res := fill(t, p, "Surname", "Smith")

	require.True(t, res.Success)
	assert.Equal(t, "label-target", res.Strategy)
	assert.Equal(t, "Smith", input.Value)
}

func TestFillResolver_LabelTargetNestedInput(t *testing.T) {
	label := pagetest.NewElement("label")
	input := pagetest.NewElement("input")
	p := pagetest.New().
		On(pagetest.SelectorKey(labelHasText("Remember")), label).
		On(pagetest.SelectorKey(nestedLabelInput("Remember")), input)

	res := fill(t, p, "Remember", "yes")

	require.True(t, res.Success)
	assert.Equal(t, "label-target", res.Strategy)
	assert.Equal(t, "yes", input.Value)
}

func TestFillResolver_PasswordHeuristic(t *testing.T) {
	pw := pagetest.NewElement("input", "type", "password")
	p := pagetest.New().On(pagetest.SelectorKey("input[type='password']"), pw)

	res := fill(t, p, "Password", "hunter2")

	require.True(t, res.Success)
	assert.Equal(t, "credential-heuristic", res.Strategy)
	assert.Equal(t, "hunter2", pw.Value)
	assert.Equal(t, 1, pw.Fills)
}

func TestFillResolver_UsernameHeuristicPrefersTextInputs(t *testing.T) {
	email := pagetest.NewElement("input", "type", "email")
	untyped := pagetest.NewElement("input")
	p := pagetest.New().
		On(pagetest.SelectorKey("input[type='email']"), email).
		On(pagetest.SelectorKey("input:not([type])"), untyped)

	res := fill(t, p, "username", "octocat")

	require.True(t, res.Success)
	assert.Equal(t, "credential-heuristic", res.Strategy)
	assert.Equal(t, "octocat", email.Value)
	assert.Zero(t, untyped.Fills)
	assert.True(t, p.Issued(pagetest.SelectorKey("input[type='text']")))
}

func TestFillResolver_HeuristicIgnoresOtherFields(t *testing.T) {
	pw := pagetest.NewElement("input", "type", "password")
	p := pagetest.New().On(pagetest.SelectorKey("input[type='password']"), pw)

	res := fill(t, p, "Passcode", "1234")

	assert.False(t, res.Success)
	assert.Zero(t, pw.Fills)
}

func TestFillResolver_KeywordFallback(t *testing.T) {
	input := pagetest.NewElement("input", "id", "first-name-input")
	p := pagetest.New().On(pagetest.SelectorKey(keywordSelector("First")), input)

	res := fill(t, p, "First Name", "Ada")

	require.True(t, res.Success)
	assert.Equal(t, "keyword", res.Strategy)
	assert.Equal(t, "Ada", input.Value)
}

func TestFillResolver_KeywordFallbackTriesLaterWords(t *testing.T) {
	input := pagetest.NewElement("input", "name", "lastname")
	p := pagetest.New().On(pagetest.SelectorKey(keywordSelector("Name")), input)

	res := fill(t, p, "Your Name", "Lovelace")

	require.True(t, res.Success)
	assert.Equal(t, "keyword", res.Strategy)
	assert.True(t, p.Issued(pagetest.SelectorKey(keywordSelector("Your"))))
}

func TestFillResolver_KeywordFallbackSkipsShortWords(t *testing.T) {
	to := pagetest.NewElement("input", "name", "to")
	z := pagetest.NewElement("input", "name", "z")
	p := pagetest.New().
		On(pagetest.SelectorKey(keywordSelector("To")), to).
		On(pagetest.SelectorKey(keywordSelector("Z")), z)

	res := fill(t, p, "To Z", "x")

	assert.False(t, res.Success)
	assert.Zero(t, to.Fills)
	assert.Zero(t, z.Fills)
	assert.False(t, p.Issued(pagetest.SelectorKey(keywordSelector("To"))))
	assert.False(t, p.Issued(pagetest.SelectorKey(keywordSelector("Z"))))
}

func TestFillResolver_SingleWordSkipsKeywordFallback(t *testing.T) {
	p := pagetest.New()

	res := fill(t, p, "Company", "Acme")

	assert.False(t, res.Success)
	assert.False(t, p.Issued(pagetest.SelectorKey(keywordSelector("Company"))))
}

func TestFillResolver_FaultsAreSkipped(t *testing.T) {
	input := pagetest.NewElement("input")
	p := pagetest.New().
		Fail(pagetest.TextKey("City", false), errors.New("stale handle")).
		Fail(pagetest.PlaceholderKey("City", false), errors.New("timeout")).
		On(pagetest.LabelKey("City", false), input)

	res := fill(t, p, "City", "Berlin")

	require.True(t, res.Success)
	assert.Equal(t, "label", res.Strategy)
	assert.Equal(t, "Berlin", input.Value)
}

func TestFillResolver_FillFaultDoesNotRetrySameTarget(t *testing.T) {
	broken := pagetest.NewElement("input")
	broken.FillErr = errors.New("element is not editable")
	fallback := pagetest.NewElement("input")
	p := pagetest.New().
		On(pagetest.PlaceholderKey("Notes", false), broken).
		On(pagetest.LabelKey("Notes", false), fallback)

	res := fill(t, p, "Notes", "hello")

	require.True(t, res.Success)
	assert.Equal(t, "label", res.Strategy)
	assert.Empty(t, broken.Value)
	assert.Equal(t, "hello", fallback.Value)
}

func TestFillResolver_NoMatch(t *testing.T) {
	p := pagetest.New()

	res := fill(t, p, "Missing Field", "value")

	assert.False(t, res.Success)
	assert.Contains(t, res.Err, `"Missing Field"`)
	assert.Contains(t, res.Err, ErrNoMatch.Error())
}
