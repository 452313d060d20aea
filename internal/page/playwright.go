package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightPage struct {
	page playwright.Page
}

// Wrap adapts a Playwright page to Page.
func Wrap(p playwright.Page) Page {
	return &playwrightPage{page: p}
}

func (p *playwrightPage) ByRole(role Role, name string, exact bool) ([]Element, error) {
	return expand(p.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	}))
}

func (p *playwrightPage) ByText(text string, exact bool) ([]Element, error) {
	return expand(p.page.GetByText(text, playwright.PageGetByTextOptions{
		Exact: playwright.Bool(exact),
	}))
}

func (p *playwrightPage) ByPlaceholder(text string, exact bool) ([]Element, error) {
	return expand(p.page.GetByPlaceholder(text, playwright.PageGetByPlaceholderOptions{
		Exact: playwright.Bool(exact),
	}))
}

func (p *playwrightPage) ByLabel(text string, exact bool) ([]Element, error) {
	return expand(p.page.GetByLabel(text, playwright.PageGetByLabelOptions{
		Exact: playwright.Bool(exact),
	}))
}

func (p *playwrightPage) Query(selector string) ([]Element, error) {
	return expand(p.page.Locator(selector))
}

func (p *playwrightPage) Keyboard() Keyboard {
	return &playwrightKeyboard{kb: p.page.Keyboard()}
}

// expand counts the locator once and hands out nth-locators; nothing is
// resolved against the DOM again until an element is acted on.
func expand(loc playwright.Locator) ([]Element, error) {
	n, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}
	elements := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, &locatorElement{loc: loc.Nth(i)})
	}
	return elements, nil
}

type locatorElement struct {
	loc playwright.Locator
}

func (e *locatorElement) Click() error {
	return e.loc.Click()
}

func (e *locatorElement) Fill(text string) error {
	return e.loc.Fill(text)
}

func (e *locatorElement) TagName() (string, error) {
	v, err := e.loc.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err != nil {
		return "", err
	}
	tag, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string tag name, got %T", v)
	}
	return strings.ToLower(tag), nil
}

func (e *locatorElement) Attribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

type playwrightKeyboard struct {
	kb playwright.Keyboard
}

func (k *playwrightKeyboard) Type(text string, delay time.Duration) error {
	return k.kb.Type(text, playwright.KeyboardTypeOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
}

func (k *playwrightKeyboard) Press(key string, delay time.Duration) error {
	return k.kb.Press(key, playwright.KeyboardPressOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
}
