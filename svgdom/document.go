// Package svgdom provides a mutable in-memory representation of an SVG
// document. Nodes live in a flat arena and are addressed by integer
// handles, so callers can hold on to region handles without keeping
// pointers into the tree. Handles are only valid for the document
// instance that produced them; a scene switch replaces the document
// wholesale and invalidates every handle.
package svgdom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// NodeID is a handle to a node in a Document's arena.
// The zero document root is always NodeID 0. InvalidNode marks "no node".
type NodeID int

// InvalidNode is returned by lookups that find nothing.
const InvalidNode NodeID = -1

// Attr is a single XML attribute. Order is preserved through a
// parse/serialize round trip.
type Attr struct {
	Name  string
	Value string
}

// node is one element in the arena.
type node struct {
	tag      string
	attrs    []Attr
	text     string
	parent   NodeID
	children []NodeID
}

// stampCounter hands out a unique identity per document instance.
// The compositor uses stamps to detect that an async texture load
// resolved against a document that has since been replaced.
var stampCounter atomic.Uint64

// Document is a parsed SVG tree. It is not safe for concurrent mutation;
// the compositor owns the document for the currently loaded scene and
// serializes all writes.
type Document struct {
	nodes []node
	root  NodeID
	byID  map[string]NodeID
	stamp uint64
}

// Parse reads an SVG (or any XML) document into a new arena tree.
// The root element must be <svg>.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{
		root:  InvalidNode,
		byID:  make(map[string]NodeID),
		stamp: stampCounter.Add(1),
	}

	dec := xml.NewDecoder(r)
	// Artwork sources are plain SVG; no external entities.
	dec.Strict = false

	var stack []NodeID
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svgdom: parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			id := NodeID(len(doc.nodes))
			n := node{
				tag:    t.Name.Local,
				parent: InvalidNode,
			}
			for _, a := range t.Attr {
				name := a.Name.Local
				// The decoder resolves prefixes to namespace URLs when a
				// matching xmlns is declared; map the two we care about back.
				switch {
				case a.Name.Space == "xmlns":
					name = "xmlns:" + a.Name.Local
				case strings.Contains(a.Name.Space, "xlink"):
					name = "xlink:" + a.Name.Local
				}
				n.attrs = append(n.attrs, Attr{Name: name, Value: a.Value})
				if name == "id" {
					if _, dup := doc.byID[a.Value]; !dup {
						doc.byID[a.Value] = id
					}
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.parent = parent
				doc.nodes = append(doc.nodes, n)
				doc.nodes[parent].children = append(doc.nodes[parent].children, id)
			} else {
				if doc.root != InvalidNode {
					return nil, fmt.Errorf("svgdom: parse: multiple root elements")
				}
				doc.nodes = append(doc.nodes, n)
				doc.root = id
			}
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("svgdom: parse: unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				s := string(t)
				if strings.TrimSpace(s) != "" {
					cur := stack[len(stack)-1]
					doc.nodes[cur].text += s
				}
			}
		}
	}

	if doc.root == InvalidNode {
		return nil, fmt.Errorf("svgdom: parse: no root element")
	}
	if doc.nodes[doc.root].tag != "svg" {
		return nil, fmt.Errorf("svgdom: parse: root element is %q, want \"svg\"", doc.nodes[doc.root].tag)
	}
	return doc, nil
}

// Stamp returns the unique identity of this document instance.
func (d *Document) Stamp() uint64 { return d.stamp }

// Root returns the handle of the root <svg> element.
func (d *Document) Root() NodeID { return d.root }

// Len returns the number of nodes in the document.
func (d *Document) Len() int { return len(d.nodes) }

// valid reports whether id addresses a node in this document.
func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Tag returns the element name of a node, or "" for an invalid handle.
func (d *Document) Tag(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].tag
}

// Parent returns the parent handle, or InvalidNode for the root.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.valid(id) {
		return InvalidNode
	}
	return d.nodes[id].parent
}

// Children returns the child handles of a node in document order.
// The returned slice must not be modified.
func (d *Document) Children(id NodeID) []NodeID {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].children
}

// Text returns the accumulated character data of a node.
func (d *Document) Text(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].text
}

// Attr returns the value of the named attribute and whether it is present.
func (d *Document) Attr(id NodeID, name string) (string, bool) {
	if !d.valid(id) {
		return "", false
	}
	for _, a := range d.nodes[id].attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (d *Document) SetAttr(id NodeID, name, value string) {
	if !d.valid(id) {
		return
	}
	attrs := d.nodes[id].attrs
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return
		}
	}
	d.nodes[id].attrs = append(attrs, Attr{Name: name, Value: value})
	if name == "id" {
		if _, dup := d.byID[value]; !dup {
			d.byID[value] = id
		}
	}
}

// RemoveAttr deletes the named attribute if present.
func (d *Document) RemoveAttr(id NodeID, name string) {
	if !d.valid(id) {
		return
	}
	attrs := d.nodes[id].attrs
	for i := range attrs {
		if attrs[i].Name == name {
			d.nodes[id].attrs = append(attrs[:i], attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns the node's attributes in document order.
// The returned slice must not be modified.
func (d *Document) Attrs(id NodeID) []Attr {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].attrs
}

// ByID returns the handle of the first element carrying the given id
// attribute, or InvalidNode.
func (d *Document) ByID(id string) NodeID {
	if n, ok := d.byID[id]; ok {
		return n
	}
	return InvalidNode
}

// AppendChild creates a new element under parent and returns its handle.
func (d *Document) AppendChild(parent NodeID, tag string, attrs ...Attr) NodeID {
	if !d.valid(parent) {
		return InvalidNode
	}
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{
		tag:    tag,
		attrs:  append([]Attr(nil), attrs...),
		parent: parent,
	})
	d.nodes[parent].children = append(d.nodes[parent].children, id)
	for _, a := range attrs {
		if a.Name == "id" {
			if _, dup := d.byID[a.Value]; !dup {
				d.byID[a.Value] = id
			}
		}
	}
	return id
}

// InsertAfter creates a new element under ref's parent, placed
// immediately after ref in document order, and returns its handle.
// Siblings serialized later keep drawing over the new element.
func (d *Document) InsertAfter(ref NodeID, tag string, attrs ...Attr) NodeID {
	if !d.valid(ref) {
		return InvalidNode
	}
	parent := d.nodes[ref].parent
	if parent == InvalidNode {
		return InvalidNode
	}
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{
		tag:    tag,
		attrs:  append([]Attr(nil), attrs...),
		parent: parent,
	})
	siblings := d.nodes[parent].children
	at := len(siblings)
	for i, c := range siblings {
		if c == ref {
			at = i + 1
			break
		}
	}
	siblings = append(siblings, InvalidNode)
	copy(siblings[at+1:], siblings[at:])
	siblings[at] = id
	d.nodes[parent].children = siblings
	for _, a := range attrs {
		if a.Name == "id" {
			if _, dup := d.byID[a.Value]; !dup {
				d.byID[a.Value] = id
			}
		}
	}
	return id
}

// drawableTags are the leaf element types the resolver and renderer
// consider paintable.
var drawableTags = map[string]bool{
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"polygon":  true,
	"polyline": true,
	"line":     true,
}

// IsDrawable reports whether the node is a paintable leaf element.
func (d *Document) IsDrawable(id NodeID) bool {
	return drawableTags[d.Tag(id)]
}

// Walk visits every node under root (inclusive) in document order.
// Returning false from fn stops the walk.
func (d *Document) Walk(root NodeID, fn func(NodeID) bool) {
	if !d.valid(root) {
		return
	}
	var visit func(NodeID) bool
	visit = func(id NodeID) bool {
		if !fn(id) {
			return false
		}
		for _, c := range d.nodes[id].children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(root)
}

// DrawableLeaves returns every paintable leaf element in document order.
func (d *Document) DrawableLeaves() []NodeID {
	var out []NodeID
	d.Walk(d.root, func(id NodeID) bool {
		if d.IsDrawable(id) {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Defs returns the document's shared <defs> section, creating one as the
// first child of the root if the artwork was authored without it.
func (d *Document) Defs() NodeID {
	for _, c := range d.nodes[d.root].children {
		if d.nodes[c].tag == "defs" {
			return c
		}
	}
	// Insert at the front so later pattern references resolve forward.
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{tag: "defs", parent: d.root})
	d.nodes[d.root].children = append([]NodeID{id}, d.nodes[d.root].children...)
	return id
}
