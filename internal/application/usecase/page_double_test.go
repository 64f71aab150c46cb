package usecase_test

import (
	"context"
	"slices"
	"strings"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type fakeElement struct {
	id      string
	tag     string
	inMain  bool
	attrs   map[string]string
	classes []string
	styles  map[string]string
	writes  []string
	text    string
	checked bool
	value   string
}

func newElement(tag, id string, classes ...string) *fakeElement {
	return &fakeElement{
		id:      id,
		tag:     tag,
		attrs:   map[string]string{},
		classes: classes,
		styles:  map[string]string{},
	}
}

func (e *fakeElement) ID() string { return e.id }

func (e *fakeElement) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Classes() []string { return slices.Clone(e.classes) }

func (e *fakeElement) HasClass(class string) bool { return slices.Contains(e.classes, class) }

func (e *fakeElement) SetClass(class string, on bool) {
	has := e.HasClass(class)
	switch {
	case on && !has:
		e.classes = append(e.classes, class)
	case !on && has:
		e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == class })
	}
}

func (e *fakeElement) Style(property string) string { return e.styles[property] }

func (e *fakeElement) SetStyle(property, value string) {
	e.writes = append(e.writes, property+"="+value)
	if value == "" {
		delete(e.styles, property)
		return
	}
	e.styles[property] = value
}

// styleWrites returns the values written to property, in order.
func (e *fakeElement) styleWrites(property string) []string {
	var out []string
	for _, w := range e.writes {
		if v, ok := strings.CutPrefix(w, property+"="); ok {
			out = append(out, v)
		}
	}
	return out
}

func (e *fakeElement) Text() string { return e.text }
func (e *fakeElement) SetText(text string) { e.text = text }
func (e *fakeElement) Checked() bool { return e.checked }
func (e *fakeElement) SetChecked(on bool) { e.checked = on }
func (e *fakeElement) Value() string { return e.value }
func (e *fakeElement) SetValue(v string) { e.value = v }

// snapshot captures everything observable about an element.
func (e *fakeElement) snapshot() string {
	classes := slices.Clone(e.classes)
	slices.Sort(classes)
	styles := make([]string, 0, len(e.styles))
	for k, v := range e.styles {
		styles = append(styles, k+"="+v)
	}
	slices.Sort(styles)
	return strings.Join([]string{
		e.id,
		strings.Join(classes, " "),
		strings.Join(styles, ";"),
		e.text,
		e.value,
		map[bool]string{true: "checked", false: ""}[e.checked],
	}, "|")
}

type fakePage struct {
	root     *fakeElement
	body     *fakeElement
	elements []*fakeElement
}

func (p *fakePage) Body() port.Element { return p.body }
func (p *fakePage) Root() port.Element { return p.root }

func (p *fakePage) ElementByID(id string) (port.Element, bool) {
	for _, el := range p.elements {
		if el.id == id {
			return el, true
		}
	}
	return nil, false
}

func (p *fakePage) QueryAll(selector string) []port.Element {
	var out []port.Element
	for _, el := range p.elements {
		if matches(el, selector) {
			out = append(out, el)
		}
	}
	return out
}

func matches(el *fakeElement, selector string) bool {
	if selector == "main section" {
		return el.tag == "section" && el.inMain
	}
	if !strings.HasPrefix(selector, ".") {
		return el.tag == selector
	}
	for _, class := range strings.Split(strings.TrimPrefix(selector, "."), ".") {
		if !el.HasClass(class) {
			return false
		}
	}
	return true
}

func (p *fakePage) add(el *fakeElement) *fakeElement {
	p.elements = append(p.elements, el)
	return el
}

func (p *fakePage) el(id string) *fakeElement {
	for _, el := range p.elements {
		if el.id == id {
			return el
		}
	}
	return nil
}

func (p *fakePage) snapshot() []string {
	out := []string{p.root.snapshot(), p.body.snapshot()}
	for _, el := range p.elements {
		out = append(out, el.snapshot())
	}
	return out
}

// newPortfolioPage builds the element set of the stock portfolio markup.
func newPortfolioPage() *fakePage {
	p := &fakePage{
		root: newElement("html", ""),
		body: newElement("body", ""),
	}
	p.add(newElement("button", "settingsBtn", "settings-btn"))
	p.add(newElement("div", "settingsPanel", "settings-panel"))
	p.add(newElement("button", "closeSettings", "close-btn"))
	p.add(newElement("input", "checkbox"))
	p.add(newElement("button", "decreaseFont", "font-btn"))
	p.add(newElement("button", "increaseFont", "font-btn"))
	p.add(newElement("span", "currentSize"))
	for _, id := range []string{"enableAnimations", "reducedMotion", "highContrast", "screenReader", "analytics", "cookies"} {
		p.add(newElement("input", id))
	}
	p.add(newElement("select", "languageSelect"))
	p.add(newElement("select", "pageWidth"))
	for _, id := range []string{"animationBadge", "accessibilityBadge", "privacyBadge"} {
		p.add(newElement("span", id, "badge"))
	}
	for _, id := range []string{"animationSection", "accessibilitySection", "privacySection"} {
		p.add(newElement("div", id, "settings-item", "expandable"))
	}
	for _, id := range []string{"about", "projects", "contact"} {
		section := newElement("section", id, "content-section")
		section.inMain = true
		p.add(section)
		link := newElement("a", "", "nav-link")
		link.attrs["href"] = "#" + id
		p.add(link)
	}
	return p
}
