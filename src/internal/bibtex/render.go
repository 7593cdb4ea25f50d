package bibtex

import (
	"bytes"
	"fmt"
)

// Render serializes entries back to BibTeX text in their given order, one
// blank line between entries. Values are emitted verbatim, so whatever brace
// structure an entry carries survives a round trip.
func Render(entries []Entry) string {
	var buf bytes.Buffer
	for idx, e := range entries {
		if idx > 0 {
			buf.WriteByte('\n')
		}
		renderEntry(&buf, e)
	}
	return buf.String()
}

func renderEntry(buf *bytes.Buffer, e Entry) {
	fmt.Fprintf(buf, "@%s{%s,\n", e.Type, e.Key)
	for i, f := range e.Fields {
		fmt.Fprintf(buf, "  %s = {%s}", f.Name, f.Value)
		if i < len(e.Fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
}
