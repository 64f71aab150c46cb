package jsdom

import (
	"strconv"
	"strings"

	"github.com/grafana/sobek"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/entity"
)

var (
	_ port.Page        = (*Runtime)(nil)
	_ port.Environment = (*Runtime)(nil)
	_ port.Element     = (*element)(nil)
)

// Body implements port.Page.
func (r *Runtime) Body() port.Element {
	return r.documentElement("body")
}

// Root implements port.Page.
func (r *Runtime) Root() port.Element {
	return r.documentElement("documentElement")
}

func (r *Runtime) documentElement(prop string) port.Element {
	var el port.Element
	r.guard("document."+prop, func(vm *sobek.Runtime) error {
		v := r.doc.Get(prop)
		if v == nil || sobek.IsNull(v) || sobek.IsUndefined(v) {
			return nil
		}
		el = &element{rt: r, obj: v.ToObject(vm)}
		return nil
	})
	return el
}

// ElementByID implements port.Page.
func (r *Runtime) ElementByID(id string) (port.Element, bool) {
	var el port.Element
	r.guard("getElementById", func(vm *sobek.Runtime) error {
		v, err := callMethod(vm, r.doc, "getElementById", id)
		if err != nil {
			return err
		}
		if sobek.IsNull(v) || sobek.IsUndefined(v) {
			return nil
		}
		el = &element{rt: r, obj: v.ToObject(vm)}
		return nil
	})
	return el, el != nil
}

// QueryAll implements port.Page. An invalid selector is logged and matches nothing.
func (r *Runtime) QueryAll(selector string) []port.Element {
	var out []port.Element
	r.guard("querySelectorAll", func(vm *sobek.Runtime) error {
		v, err := callMethod(vm, r.doc, "querySelectorAll", selector)
		if err != nil {
			return err
		}
		list := v.ToObject(vm)
		n := int(list.Get("length").ToInteger())
		out = make([]port.Element, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, &element{rt: r, obj: list.Get(strconv.Itoa(i)).ToObject(vm)})
		}
		return nil
	})
	return out
}

// UserAgent implements port.Environment.
func (r *Runtime) UserAgent() string {
	var ua string
	r.guard("navigator.userAgent", func(vm *sobek.Runtime) error {
		ua = vm.Get("navigator").ToObject(vm).Get("userAgent").String()
		return nil
	})
	return ua
}

// Viewport implements port.Environment.
func (r *Runtime) Viewport() entity.Viewport {
	var v entity.Viewport
	r.guard("window geometry", func(vm *sobek.Runtime) error {
		v.InnerWidth = int(vm.Get("innerWidth").ToInteger())
		v.InnerHeight = int(vm.Get("innerHeight").ToInteger())
		v.ScreenHeight = int(vm.Get("screen").ToObject(vm).Get("height").ToInteger())
		return nil
	})
	return v
}

// TouchCapable implements port.Environment.
func (r *Runtime) TouchCapable() bool {
	var touch bool
	r.guard("touch detection", func(vm *sobek.Runtime) error {
		v, err := r.callAPI("touch")
		if err != nil {
			return err
		}
		touch = v.ToBoolean()
		return nil
	})
	return touch
}

// SetViewport changes the window geometry, as a resize or rotation would.
func (r *Runtime) SetViewport(v entity.Viewport) {
	r.guard("resize", func(_ *sobek.Runtime) error {
		r.opts.Viewport = v
		return r.configure()
	})
}

// element is a handle on a shim Element object.
type element struct {
	rt  *Runtime
	obj *sobek.Object
}

func (e *element) get(op, prop string) sobek.Value {
	var v sobek.Value
	e.rt.guard(op, func(_ *sobek.Runtime) error {
		v = e.obj.Get(prop)
		return nil
	})
	return v
}

func (e *element) set(op, prop string, value any) {
	e.rt.guard(op, func(vm *sobek.Runtime) error {
		return e.obj.Set(prop, vm.ToValue(value))
	})
}

func (e *element) call(op string, target func(vm *sobek.Runtime) *sobek.Object, method string, args ...any) sobek.Value {
	var v sobek.Value
	e.rt.guard(op, func(vm *sobek.Runtime) error {
		var err error
		v, err = callMethod(vm, target(vm), method, args...)
		return err
	})
	return v
}

func (e *element) self(_ *sobek.Runtime) *sobek.Object { return e.obj }

func (e *element) classList(vm *sobek.Runtime) *sobek.Object {
	return e.obj.Get("classList").ToObject(vm)
}

func (e *element) style(vm *sobek.Runtime) *sobek.Object {
	return e.obj.Get("style").ToObject(vm)
}

func stringOf(v sobek.Value) string {
	if v == nil || sobek.IsNull(v) || sobek.IsUndefined(v) {
		return ""
	}
	return v.String()
}

func (e *element) ID() string {
	return stringOf(e.get("id", "id"))
}

func (e *element) Attribute(name string) (string, bool) {
	v := e.call("getAttribute", e.self, "getAttribute", name)
	if v == nil || sobek.IsNull(v) || sobek.IsUndefined(v) {
		return "", false
	}
	return v.String(), true
}

func (e *element) Classes() []string {
	return strings.Fields(stringOf(e.get("className", "className")))
}

func (e *element) HasClass(class string) bool {
	v := e.call("classList.contains", e.classList, "contains", class)
	return v != nil && v.ToBoolean()
}

func (e *element) SetClass(class string, on bool) {
	e.call("classList.toggle", e.classList, "toggle", class, on)
}

func (e *element) Style(property string) string {
	return stringOf(e.call("style.getPropertyValue", e.style, "getPropertyValue", property))
}

func (e *element) SetStyle(property, value string) {
	if value == "" {
		e.call("style.removeProperty", e.style, "removeProperty", property)
		return
	}
	e.call("style.setProperty", e.style, "setProperty", property, value)
}

func (e *element) Text() string {
	return stringOf(e.get("textContent", "textContent"))
}

func (e *element) SetText(text string) {
	e.set("textContent", "textContent", text)
}

func (e *element) Checked() bool {
	v := e.get("checked", "checked")
	return v != nil && v.ToBoolean()
}

func (e *element) SetChecked(checked bool) {
	e.set("checked", "checked", checked)
}

func (e *element) Value() string {
	return stringOf(e.get("value", "value"))
}

func (e *element) SetValue(value string) {
	e.set("value", "value", value)
}
