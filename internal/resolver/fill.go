package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/page"
)

// minKeywordLen is the shortest word the keyword fallback searches for.
// Shorter words substring-match too many unrelated attributes.
const minKeywordLen = 4

var (
	textLikeInputs = []string{"input[type='text']", "input[type='email']", "input:not([type])"}
	passwordInputs = []string{"input[type='password']"}
)

// FillResolver finds an input, textarea or content-editable element from a
// field description.
type FillResolver struct {
	cascade
}

// NewFillResolver builds the fill cascade.
func NewFillResolver(logger *zap.Logger) *FillResolver {
	return &FillResolver{cascade{
		verb:   "fill",
		logger: logger.Named("fill"),
		strategies: []Strategy{
			labelForTextbox{},
			locatorStrategy{name: "placeholder", kind: MatchPartial, lookup: byPlaceholder},
			locatorStrategy{name: "label", kind: MatchPartial, lookup: byLabel},
			selectorStrategy{name: "placeholder-attribute", kind: MatchAttribute, build: inputPlaceholderContains},
			selectorStrategy{name: "name-or-id", kind: MatchAttribute, build: inputNameOrIDContains},
			labelTarget{},
			selectorStrategy{name: "textarea", kind: MatchAttribute, build: textareaContains},
			selectorStrategy{name: "aria-label-or-title", kind: MatchAttribute, build: inputAriaOrTitleContains},
			selectorStrategy{name: "contenteditable", kind: MatchPartial, build: contentEditableHasText},
			credentialField{},
			keywordFallback{},
		},
	}}
}

// Resolve fills the first element matched by the highest-priority strategy.
func (r *FillResolver) Resolve(ctx context.Context, p page.Page, field, text string) Result {
	return r.run(ctx, p, field, func(el page.Element) error {
		return el.Fill(text)
	})
}

func byPlaceholder(p page.Page, d string) ([]page.Element, error) {
	return p.ByPlaceholder(d, false)
}

func byLabel(p page.Page, d string) ([]page.Element, error) {
	return p.ByLabel(d, false)
}

func inputPlaceholderContains(d string) string {
	return fmt.Sprintf("input[placeholder*='%s' i]", d)
}

func inputNameOrIDContains(d string) string {
	return fmt.Sprintf("input[name*='%[1]s' i], input[id*='%[1]s' i]", d)
}

func labelHasText(d string) string {
	return fmt.Sprintf("label:has-text('%s')", d)
}

func nestedLabelInput(d string) string {
	return labelHasText(d) + " input"
}

func idEquals(id string) string {
	return fmt.Sprintf("[id='%s']", Escape(id))
}

func textareaContains(d string) string {
	return fmt.Sprintf("textarea[placeholder*='%[1]s' i], textarea[name*='%[1]s' i]", d)
}

func inputAriaOrTitleContains(d string) string {
	return fmt.Sprintf("input[aria-label*='%[1]s' i], input[title*='%[1]s' i]", d)
}

func contentEditableHasText(d string) string {
	return fmt.Sprintf("[contenteditable='true']:has-text('%s')", d)
}

func keywordSelector(word string) string {
	return fmt.Sprintf("input[placeholder*='%[1]s' i], input[name*='%[1]s' i], input[id*='%[1]s' i], input[aria-label*='%[1]s' i]", Escape(word))
}

// labelForTextbox matches text on the page; when that text is a <label>
// carrying a for attribute, the textbox with the matching accessible name
// is the target. Any other shape falls through.
type labelForTextbox struct{}

func (labelForTextbox) Name() string    { return "label-for-textbox" }
func (labelForTextbox) Kind() MatchKind { return MatchPartial }

func (labelForTextbox) Find(ctx context.Context, p page.Page, d string) ([]page.Element, error) {
	texts, err := p.ByText(d, false)
	if err != nil || len(texts) == 0 {
		return nil, err
	}
	tag, err := texts[0].TagName()
	if err != nil || tag != "label" {
		return nil, err
	}
	forID, err := texts[0].Attribute("for")
	if err != nil || forID == "" {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.ByRole(page.RoleTextbox, d, false)
}

// labelTarget fills the element a matching <label> points at through its
// for attribute, or the input nested inside the label.
type labelTarget struct{}

func (labelTarget) Name() string    { return "label-target" }
func (labelTarget) Kind() MatchKind { return MatchPartial }

func (labelTarget) Find(ctx context.Context, p page.Page, d string) ([]page.Element, error) {
	escaped := Escape(d)
	labels, err := p.Query(labelHasText(escaped))
	if err != nil || len(labels) == 0 {
		return nil, err
	}
	forID, err := labels[0].Attribute("for")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if forID != "" {
		return p.Query(idEquals(forID))
	}
	return p.Query(nestedLabelInput(escaped))
}

// credentialField guesses login inputs by type for the common field names.
type credentialField struct{}

func (credentialField) Name() string    { return "credential-heuristic" }
func (credentialField) Kind() MatchKind { return MatchHeuristic }

func (credentialField) Find(ctx context.Context, p page.Page, d string) ([]page.Element, error) {
	var selectors []string
	switch strings.ToLower(d) {
	case "username", "email":
		selectors = textLikeInputs
	case "password":
		selectors = passwordInputs
	default:
		return nil, nil
	}
	for _, sel := range selectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := p.Query(sel)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}

// keywordFallback searches the attributes of inputs for each significant
// word of a multi-word description.
type keywordFallback struct{}

func (keywordFallback) Name() string    { return "keyword" }
func (keywordFallback) Kind() MatchKind { return MatchHeuristic }

func (keywordFallback) Find(ctx context.Context, p page.Page, d string) ([]page.Element, error) {
	words := strings.Fields(d)
	if len(words) < 2 {
		return nil, nil
	}
	for _, word := range words {
		if len([]rune(word)) < minKeywordLen {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := p.Query(keywordSelector(word))
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}
