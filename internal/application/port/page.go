// Package port declares the interfaces the use cases need from the page and its host.
package port

// Element is a handle on one node of the rendered page.
// Implementations swallow their own backend failures (script exceptions,
// detached nodes) and log them; callers never see an error from a setter.
type Element interface {
	// ID returns the element id, or "" when it has none.
	ID() string

	// Attribute returns the raw attribute value and whether it is present.
	Attribute(name string) (string, bool)

	Classes() []string
	HasClass(class string) bool
	// SetClass adds the class when on is true and removes it otherwise.
	SetClass(class string, on bool)

	// Style returns an inline style property, custom properties included.
	Style(property string) string
	// SetStyle sets an inline style property. An empty value removes it.
	SetStyle(property, value string)

	Text() string
	SetText(text string)

	// Checked and Value mirror the state of form controls.
	Checked() bool
	SetChecked(checked bool)
	Value() string
	SetValue(value string)
}

// Page is the document the controller drives.
type Page interface {
	// Body returns the document body element.
	Body() Element

	// Root returns the document element (<html>).
	Root() Element

	// ElementByID looks an element up by id.
	ElementByID(id string) (Element, bool)

	// QueryAll returns every element matching a CSS selector in document order.
	QueryAll(selector string) []Element
}
