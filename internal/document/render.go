package document

import "strings"

const indentUnit = "  "

// Render formats the subtree rooted at n in canonical input syntax.
func (n *Node) Render() string {
	var b strings.Builder
	n.render(&b, "")
	return b.String()
}

func (n *Node) render(b *strings.Builder, indent string) {
	switch n.kind {
	case KindRoot:
		for i, c := range n.children {
			if i > 0 {
				b.WriteByte('\n')
			}
			c.render(b, indent)
		}
	case KindSection:
		b.WriteString(indent + "[" + n.name + "]")
		for _, c := range n.children {
			b.WriteByte('\n')
			c.render(b, indent+indentUnit)
		}
		b.WriteString("\n" + indent + "[]")
	case KindField:
		b.WriteString(indent + n.name + " = " + renderValue(n.value, n.quote))
	case KindComment:
		b.WriteString(indent + "#" + n.value)
	}
}

func renderValue(v string, quote byte) string {
	if quote == 0 && v != "" && !strings.ContainsAny(v, " \t\n'\"[#") {
		return v
	}
	if quote == 0 {
		quote = '\''
	}
	q := string(quote)
	return q + strings.ReplaceAll(v, q, `\`+q) + q
}
