package svgdom

import "strings"

// Inline style handling. SVG authoring tools emit fills both as a plain
// attribute and inside the style attribute, and rendering paths prioritize
// the inline style. The compositor therefore always writes both; these
// helpers give it property-level access to the style attribute.

// StyleProp returns the value of a property inside the node's style
// attribute, e.g. StyleProp(id, "fill") for style="fill:#fff;stroke:none".
func (d *Document) StyleProp(id NodeID, prop string) (string, bool) {
	raw, ok := d.Attr(id, "style")
	if !ok {
		return "", false
	}
	for _, decl := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		if strings.TrimSpace(k) == prop {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// SetStyleProp sets or replaces a property inside the node's style
// attribute, preserving unrelated declarations.
func (d *Document) SetStyleProp(id NodeID, prop, value string) {
	raw, _ := d.Attr(id, "style")
	decls := splitStyle(raw)
	replaced := false
	for i := range decls {
		if decls[i].name == prop {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, styleDecl{name: prop, value: value})
	}
	d.SetAttr(id, "style", joinStyle(decls))
}

// RemoveStyleProp deletes a property from the node's style attribute.
// An emptied style attribute is removed entirely.
func (d *Document) RemoveStyleProp(id NodeID, prop string) {
	raw, ok := d.Attr(id, "style")
	if !ok {
		return
	}
	decls := splitStyle(raw)
	kept := decls[:0]
	for _, decl := range decls {
		if decl.name != prop {
			kept = append(kept, decl)
		}
	}
	if len(kept) == 0 {
		d.RemoveAttr(id, "style")
		return
	}
	d.SetAttr(id, "style", joinStyle(kept))
}

type styleDecl struct {
	name  string
	value string
}

func splitStyle(raw string) []styleDecl {
	var decls []styleDecl
	for _, part := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		name := strings.TrimSpace(k)
		if name == "" {
			continue
		}
		decls = append(decls, styleDecl{name: name, value: strings.TrimSpace(v)})
	}
	return decls
}

func joinStyle(decls []styleDecl) string {
	var b strings.Builder
	for i, decl := range decls {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(decl.name)
		b.WriteByte(':')
		b.WriteString(decl.value)
	}
	return b.String()
}
