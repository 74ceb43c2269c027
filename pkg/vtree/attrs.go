package vtree

import "strings"

// AttrValue is the value side of one attribute: either a plain string or
// a reference to an event handler description. The two compare
// differently — strings byte-exact, handlers by identity — so the sum is
// kept closed behind constructors.
type AttrValue struct {
	str     string
	handler *Handler
}

// StringValue wraps a plain string attribute value.
func StringValue(s string) AttrValue {
	return AttrValue{str: s}
}

// HandlerValue wraps an event handler reference.
func HandlerValue(h *Handler) AttrValue {
	return AttrValue{handler: h}
}

// IsHandler reports whether the value is an event handler reference.
func (v AttrValue) IsHandler() bool {
	return v.handler != nil
}

// Text returns the string form of a string-valued attribute; empty for
// handler values.
func (v AttrValue) Text() string {
	return v.str
}

// Handler returns the handler reference, or nil for string values.
func (v AttrValue) Handler() *Handler {
	return v.handler
}

// Equal reports attribute value equality: byte-exact for strings,
// reference identity for handlers.
func (v AttrValue) Equal(o AttrValue) bool {
	if v.handler != nil || o.handler != nil {
		return v.handler == o.handler
	}
	return v.str == o.str
}

// String implements fmt.Stringer for logs and test output.
func (v AttrValue) String() string {
	if v.handler != nil {
		return "handler(" + v.handler.Event + ")"
	}
	return v.str
}

// Attr is a single attribute as passed to element factories.
type Attr struct {
	Key   string
	Value AttrValue
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Event is what a render target reports when a mounted node fires an
// event slot. Value carries the slot's payload, e.g. the current input
// text or the pressed key.
type Event struct {
	Name  string
	Value string
}

// Handler describes how one event slot turns into an application
// message. Handlers compare by identity: reusing the same *Handler
// across cycles marks the attribute unchanged.
type Handler struct {
	Event string // Slot name without the "on" prefix, e.g. "click"

	msg any             // Static message, used when fn is nil
	fn  func(Event) any // Payload-aware message constructor
}

// Resolve produces the message for one event occurrence.
func (h *Handler) Resolve(ev Event) any {
	if h.fn != nil {
		return h.fn(ev)
	}
	return h.msg
}

// Set builds an arbitrary string attribute.
func Set(key, value string) Attr {
	return Attr{Key: key, Value: StringValue(value)}
}

// SetIf builds the attribute only when cond is true; otherwise it returns
// an empty Attr, which element factories skip.
func SetIf(cond bool, key, value string) Attr {
	if !cond {
		return Attr{}
	}
	return Set(key, value)
}

// Class joins the given class names with spaces.
func Class(names ...string) Attr {
	return Set("class", strings.Join(names, " "))
}

// ClassIf adds the class only when cond is true.
func ClassIf(cond bool, name string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(name)
}

// ID sets the id attribute.
func ID(id string) Attr { return Set("id", id) }

// Style sets the style attribute.
func Style(css string) Attr { return Set("style", css) }

// Href sets the href attribute.
func Href(url string) Attr { return Set("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return Set("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return Set("alt", text) }

// Title sets the title attribute.
func Title(text string) Attr { return Set("title", text) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return Set("placeholder", text) }

// Type sets the type attribute.
func Type(t string) Attr { return Set("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return Set("value", v) }

// Name sets the name attribute.
func Name(n string) Attr { return Set("name", n) }

// For sets the for attribute.
func For(id string) Attr { return Set("for", id) }

// Disabled sets the disabled attribute when on is true.
func Disabled(on bool) Attr { return SetIf(on, "disabled", "true") }

// Checked sets the checked attribute when on is true.
func Checked(on bool) Attr { return SetIf(on, "checked", "true") }

// Selected sets the selected attribute when on is true.
func Selected(on bool) Attr { return SetIf(on, "selected", "true") }

// Data sets a data-* attribute.
func Data(suffix, value string) Attr { return Set("data-"+suffix, value) }

// Key tags a node with a reconciliation key. Element factories move it to
// Node.Key rather than storing an attribute.
func Key(k string) Attr {
	return Attr{Key: "key", Value: StringValue(k)}
}

// On attaches a handler that produces the given message whenever the
// event slot fires, ignoring the payload.
func On(event string, msg any) Attr {
	return Attr{Key: "on" + event, Value: HandlerValue(&Handler{Event: event, msg: msg})}
}

// OnFunc attaches a handler that builds the message from the event
// payload.
func OnFunc(event string, fn func(Event) any) Attr {
	return Attr{Key: "on" + event, Value: HandlerValue(&Handler{Event: event, fn: fn})}
}

// OnClick fires msg on click.
func OnClick(msg any) Attr { return On("click", msg) }

// OnSubmit fires msg on form submission.
func OnSubmit(msg any) Attr { return On("submit", msg) }

// OnBlur fires msg when the node loses focus.
func OnBlur(msg any) Attr { return On("blur", msg) }

// OnInput fires fn with the current input value on every input event.
func OnInput(fn func(value string) any) Attr {
	return OnFunc("input", func(ev Event) any { return fn(ev.Value) })
}

// OnChange fires fn with the committed value on change.
func OnChange(fn func(value string) any) Attr {
	return OnFunc("change", func(ev Event) any { return fn(ev.Value) })
}

// OnKeyDown fires fn with the pressed key's name.
func OnKeyDown(fn func(key string) any) Attr {
	return OnFunc("keydown", func(ev Event) any { return fn(ev.Value) })
}
