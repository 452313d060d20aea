package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/page"
)

// ClickResolver finds a click target from a textual description.
type ClickResolver struct {
	cascade
}

// NewClickResolver builds the click cascade. Role queries come first, then
// text matches anywhere in the tree, then attribute matches.
func NewClickResolver(logger *zap.Logger) *ClickResolver {
	return &ClickResolver{cascade{
		verb:   "click",
		logger: logger.Named("click"),
		strategies: []Strategy{
			roleStrategy{name: "role-exact-button", role: page.RoleButton, exact: true},
			roleStrategy{name: "role-exact-link", role: page.RoleLink, exact: true},
			roleStrategy{name: "role-partial-button", role: page.RoleButton},
			roleStrategy{name: "role-partial-link", role: page.RoleLink},
			xpathStrategy{name: "text-exact", kind: MatchExact, build: exactTextXPath},
			xpathStrategy{name: "text-contains", kind: MatchPartial, build: containsTextXPath},
			selectorStrategy{name: "button-has-text", kind: MatchPartial, build: buttonHasText},
			selectorStrategy{name: "link-has-text", kind: MatchPartial, build: linkHasText},
			selectorStrategy{name: "input-placeholder-or-value", kind: MatchAttribute, build: inputPlaceholderOrValue},
			selectorStrategy{name: "attribute-exact", kind: MatchAttribute, build: attributeExact},
			selectorStrategy{name: "attribute-exact-ci", kind: MatchAttribute, build: attributeExactFold},
		},
	}}
}

// Resolve clicks the first element matched by the highest-priority strategy.
func (r *ClickResolver) Resolve(ctx context.Context, p page.Page, description string) Result {
	return r.run(ctx, p, description, func(el page.Element) error {
		return el.Click()
	})
}

func exactTextXPath(literal string) string {
	return fmt.Sprintf("//*[text()=%s]", literal)
}

func containsTextXPath(literal string) string {
	return fmt.Sprintf("//*[contains(text(), %s)]", literal)
}

func buttonHasText(d string) string {
	return fmt.Sprintf("button:has-text('%s')", d)
}

func linkHasText(d string) string {
	return fmt.Sprintf("a:has-text('%s')", d)
}

func inputPlaceholderOrValue(d string) string {
	return fmt.Sprintf("input[placeholder='%s'], input[value='%s']", d, d)
}

func attributeExact(d string) string {
	return fmt.Sprintf("[title='%[1]s'], [aria-label='%[1]s'], [name='%[1]s'], [id='%[1]s']", d)
}

func attributeExactFold(d string) string {
	return fmt.Sprintf("[title='%[1]s' i], [aria-label='%[1]s' i], [name='%[1]s' i], [id='%[1]s' i]", d)
}
