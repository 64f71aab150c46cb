package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bnema/folio/internal/application/port"
)

// element adapts a single-node selection to port.Element.
type element struct {
	sel *goquery.Selection
}

var _ port.Element = (*element)(nil)

func wrap(sel *goquery.Selection) *element {
	return &element{sel: sel}
}

func (e *element) ID() string {
	return e.sel.AttrOr("id", "")
}

func (e *element) Attribute(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) Classes() []string {
	return strings.Fields(e.sel.AttrOr("class", ""))
}

func (e *element) HasClass(class string) bool {
	return e.sel.HasClass(class)
}

func (e *element) SetClass(class string, on bool) {
	if on {
		e.sel.AddClass(class)
		return
	}
	e.sel.RemoveClass(class)
	if strings.TrimSpace(e.sel.AttrOr("class", "")) == "" {
		e.sel.RemoveAttr("class")
	}
}

func (e *element) Style(property string) string {
	return parseStyle(e.sel.AttrOr("style", "")).get(property)
}

func (e *element) SetStyle(property, value string) {
	decls := parseStyle(e.sel.AttrOr("style", ""))
	decls.set(property, value)
	if len(decls) == 0 {
		e.sel.RemoveAttr("style")
		return
	}
	e.sel.SetAttr("style", decls.String())
}

func (e *element) Text() string {
	return e.sel.Text()
}

func (e *element) SetText(text string) {
	e.sel.SetText(text)
}

func (e *element) Checked() bool {
	_, ok := e.sel.Attr("checked")
	return ok
}

func (e *element) SetChecked(checked bool) {
	if checked {
		e.sel.SetAttr("checked", "")
		return
	}
	e.sel.RemoveAttr("checked")
}

// Value mirrors HTMLSelectElement.value for selects: the selected option,
// else the first one.
func (e *element) Value() string {
	if !e.sel.Is("select") {
		return e.sel.AttrOr("value", "")
	}
	options := e.sel.Find("option")
	chosen := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
		_, ok := o.Attr("selected")
		return ok
	}).First()
	if chosen.Length() == 0 {
		chosen = options.First()
	}
	if chosen.Length() == 0 {
		return ""
	}
	return optionValue(chosen)
}

func (e *element) SetValue(value string) {
	if !e.sel.Is("select") {
		e.sel.SetAttr("value", value)
		return
	}
	matched := false
	e.sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		if !matched && optionValue(o) == value {
			o.SetAttr("selected", "")
			matched = true
			return
		}
		o.RemoveAttr("selected")
	})
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(o.Text())
}
