// Package pagetest provides a scripted page.Page for exercising resolvers
// without a browser. Queries are answered from a table keyed by the exact
// query issued, and every query is recorded in order.
package pagetest

import (
	"fmt"
	"strings"
	"time"

	"github.com/nbenliogludev/webmancer/internal/page"
)

// Element is a scripted element. It records clicks and fills.
type Element struct {
	Tag   string
	Attrs map[string]string

	ClickErr error
	FillErr  error

	Clicks int
	Value  string
	Fills  int
}

// NewElement builds an element with attributes given as name/value pairs.
func NewElement(tag string, attrs ...string) *Element {
	e := &Element{Tag: tag, Attrs: make(map[string]string)}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs[attrs[i]] = attrs[i+1]
	}
	return e
}

func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) Fill(text string) error {
	if e.FillErr != nil {
		return e.FillErr
	}
	e.Value = text
	e.Fills++
	return nil
}

func (e *Element) TagName() (string, error) {
	return strings.ToLower(e.Tag), nil
}

func (e *Element) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

// Keystroke is one recorded keyboard event.
type Keystroke struct {
	Text  string
	Delay time.Duration
}

// Keyboard records typed text and pressed keys.
type Keyboard struct {
	TypeErr  error
	PressErr error

	Typed   []Keystroke
	Pressed []Keystroke
}

func (k *Keyboard) Type(text string, delay time.Duration) error {
	if k.TypeErr != nil {
		return k.TypeErr
	}
	k.Typed = append(k.Typed, Keystroke{Text: text, Delay: delay})
	return nil
}

func (k *Keyboard) Press(key string, delay time.Duration) error {
	if k.PressErr != nil {
		return k.PressErr
	}
	k.Pressed = append(k.Pressed, Keystroke{Text: key, Delay: delay})
	return nil
}

// Page answers queries from its tables.
type Page struct {
	KB *Keyboard

	// Queries lists every query key in the order it was issued.
	Queries []string

	results map[string][]*Element
	faults  map[string]error
}

// New returns an empty page: every query misses.
func New() *Page {
	return &Page{
		KB:      &Keyboard{},
		results: make(map[string][]*Element),
		faults:  make(map[string]error),
	}
}

// RoleKey, TextKey, PlaceholderKey, LabelKey and SelectorKey name queries.
func RoleKey(role page.Role, name string, exact bool) string {
	return fmt.Sprintf("role:%s:%s:%s", role, name, mode(exact))
}

func TextKey(text string, exact bool) string {
	return fmt.Sprintf("text:%s:%s", text, mode(exact))
}

func PlaceholderKey(text string, exact bool) string {
	return fmt.Sprintf("placeholder:%s:%s", text, mode(exact))
}

func LabelKey(text string, exact bool) string {
	return fmt.Sprintf("label:%s:%s", text, mode(exact))
}

func SelectorKey(selector string) string {
	return "selector:" + selector
}

func mode(exact bool) string {
	if exact {
		return "exact"
	}
	return "partial"
}

// On registers the elements returned for a query key.
func (p *Page) On(key string, elements ...*Element) *Page {
	p.results[key] = append(p.results[key], elements...)
	return p
}

// Fail makes the query key return err.
func (p *Page) Fail(key string, err error) *Page {
	p.faults[key] = err
	return p
}

// Issued reports whether key was queried.
func (p *Page) Issued(key string) bool {
	for _, q := range p.Queries {
		if q == key {
			return true
		}
	}
	return false
}

func (p *Page) lookup(key string) ([]page.Element, error) {
	p.Queries = append(p.Queries, key)
	if err, ok := p.faults[key]; ok {
		return nil, err
	}
	found := p.results[key]
	out := make([]page.Element, 0, len(found))
	for _, e := range found {
		out = append(out, e)
	}
	return out, nil
}

func (p *Page) ByRole(role page.Role, name string, exact bool) ([]page.Element, error) {
	return p.lookup(RoleKey(role, name, exact))
}

func (p *Page) ByText(text string, exact bool) ([]page.Element, error) {
	return p.lookup(TextKey(text, exact))
}

func (p *Page) ByPlaceholder(text string, exact bool) ([]page.Element, error) {
	return p.lookup(PlaceholderKey(text, exact))
}

func (p *Page) ByLabel(text string, exact bool) ([]page.Element, error) {
	return p.lookup(LabelKey(text, exact))
}

func (p *Page) Query(selector string) ([]page.Element, error) {
	return p.lookup(SelectorKey(selector))
}

func (p *Page) Keyboard() page.Keyboard {
	return p.KB
}
