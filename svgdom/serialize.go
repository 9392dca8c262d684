package svgdom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// WriteTo serializes the document as XML. Attribute order and element
// order are preserved so a parse/serialize round trip is stable, which
// keeps exported snapshots reproducible.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	d.writeNode(&buf, d.root)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// String returns the serialized document. Intended for tests and snapshots.
func (d *Document) String() string {
	var buf bytes.Buffer
	d.writeNode(&buf, d.root)
	return buf.String()
}

func (d *Document) writeNode(buf *bytes.Buffer, id NodeID) {
	n := &d.nodes[id]
	buf.WriteByte('<')
	buf.WriteString(n.tag)
	for _, a := range n.attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}
	if len(n.children) == 0 && n.text == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if n.text != "" {
		_ = xml.EscapeText(buf, []byte(n.text))
	}
	for _, c := range n.children {
		d.writeNode(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(n.tag)
	buf.WriteByte('>')
}

// escapeAttr escapes the characters that are unsafe inside a
// double-quoted attribute value. xml.EscapeText would also escape
// newlines and tabs, which path data never contains but data URIs can.
func escapeAttr(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&#34;",
	)
	return r.Replace(s)
}
