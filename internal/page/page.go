// Package page defines the DOM access capability consumed by the resolvers.
// The browser package supplies a Playwright-backed implementation; tests use
// the scripted implementation in pagetest.
package page

import "time"

// Role is an ARIA role used for accessibility-tree queries.
type Role string

const (
	RoleButton  Role = "button"
	RoleLink    Role = "link"
	RoleTextbox Role = "textbox"
)

// Element is a handle to a located page element.
type Element interface {
	Click() error
	Fill(text string) error
	// TagName returns the lower-cased tag name.
	TagName() (string, error)
	// Attribute returns the attribute value, or "" when it is not set.
	Attribute(name string) (string, error)
}

// Page exposes the query primitives the resolvers cascade through. Every
// query returns the matching elements in document order; an empty slice is
// a miss, not an error.
type Page interface {
	ByRole(role Role, name string, exact bool) ([]Element, error)
	ByText(text string, exact bool) ([]Element, error)
	ByPlaceholder(text string, exact bool) ([]Element, error)
	ByLabel(text string, exact bool) ([]Element, error)
	// Query accepts CSS, Playwright pseudo-classes and XPath starting with "//".
	Query(selector string) ([]Element, error)
	Keyboard() Keyboard
}

// Keyboard sends key events to the focused element.
type Keyboard interface {
	Type(text string, delay time.Duration) error
	Press(key string, delay time.Duration) error
}
