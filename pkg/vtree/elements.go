package vtree

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Div creates a <div> element.
func (b *Builder) Div(args ...any) *Node { return b.El("div", args...) }

// Span creates a <span> element.
func (b *Builder) Span(args ...any) *Node { return b.El("span", args...) }

// P creates a <p> element.
func (b *Builder) P(args ...any) *Node { return b.El("p", args...) }

// H1 creates an <h1> element.
func (b *Builder) H1(args ...any) *Node { return b.El("h1", args...) }

// H2 creates an <h2> element.
func (b *Builder) H2(args ...any) *Node { return b.El("h2", args...) }

// H3 creates an <h3> element.
func (b *Builder) H3(args ...any) *Node { return b.El("h3", args...) }

// H4 creates an <h4> element.
func (b *Builder) H4(args ...any) *Node { return b.El("h4", args...) }

// Ul creates a <ul> element.
func (b *Builder) Ul(args ...any) *Node { return b.El("ul", args...) }

// Ol creates an <ol> element.
func (b *Builder) Ol(args ...any) *Node { return b.El("ol", args...) }

// Li creates an <li> element.
func (b *Builder) Li(args ...any) *Node { return b.El("li", args...) }

// Button creates a <button> element.
func (b *Builder) Button(args ...any) *Node { return b.El("button", args...) }

// Input creates an <input> element.
func (b *Builder) Input(args ...any) *Node { return b.El("input", args...) }

// Textarea creates a <textarea> element.
func (b *Builder) Textarea(args ...any) *Node { return b.El("textarea", args...) }

// SelectEl creates a <select> element.
func (b *Builder) SelectEl(args ...any) *Node { return b.El("select", args...) }

// Option creates an <option> element.
func (b *Builder) Option(args ...any) *Node { return b.El("option", args...) }

// Form creates a <form> element.
func (b *Builder) Form(args ...any) *Node { return b.El("form", args...) }

// Label creates a <label> element.
func (b *Builder) Label(args ...any) *Node { return b.El("label", args...) }

// A creates an <a> element.
func (b *Builder) A(args ...any) *Node { return b.El("a", args...) }

// Img creates an <img> element.
func (b *Builder) Img(args ...any) *Node { return b.El("img", args...) }

// Br creates a <br> element.
func (b *Builder) Br(args ...any) *Node { return b.El("br", args...) }

// Hr creates an <hr> element.
func (b *Builder) Hr(args ...any) *Node { return b.El("hr", args...) }

// Strong creates a <strong> element.
func (b *Builder) Strong(args ...any) *Node { return b.El("strong", args...) }

// Em creates an <em> element.
func (b *Builder) Em(args ...any) *Node { return b.El("em", args...) }

// Code creates a <code> element.
func (b *Builder) Code(args ...any) *Node { return b.El("code", args...) }

// Pre creates a <pre> element.
func (b *Builder) Pre(args ...any) *Node { return b.El("pre", args...) }

// Nav creates a <nav> element.
func (b *Builder) Nav(args ...any) *Node { return b.El("nav", args...) }

// Header creates a <header> element.
func (b *Builder) Header(args ...any) *Node { return b.El("header", args...) }

// Footer creates a <footer> element.
func (b *Builder) Footer(args ...any) *Node { return b.El("footer", args...) }

// Main creates a <main> element.
func (b *Builder) Main(args ...any) *Node { return b.El("main", args...) }

// Section creates a <section> element.
func (b *Builder) Section(args ...any) *Node { return b.El("section", args...) }

// Article creates an <article> element.
func (b *Builder) Article(args ...any) *Node { return b.El("article", args...) }

// Aside creates an <aside> element.
func (b *Builder) Aside(args ...any) *Node { return b.El("aside", args...) }

// Table creates a <table> element.
func (b *Builder) Table(args ...any) *Node { return b.El("table", args...) }

// Thead creates a <thead> element.
func (b *Builder) Thead(args ...any) *Node { return b.El("thead", args...) }

// Tbody creates a <tbody> element.
func (b *Builder) Tbody(args ...any) *Node { return b.El("tbody", args...) }

// Tr creates a <tr> element.
func (b *Builder) Tr(args ...any) *Node { return b.El("tr", args...) }

// Td creates a <td> element.
func (b *Builder) Td(args ...any) *Node { return b.El("td", args...) }

// Th creates a <th> element.
func (b *Builder) Th(args ...any) *Node { return b.El("th", args...) }
