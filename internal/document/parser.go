package document

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse builds a document tree from text. sourceName is recorded on every
// node for diagnostics. The returned tree is not exploded; call Explode to
// turn slash-separated names into nested sections.
func Parse(sourceName, text string) (*Node, error) {
	p := &parser{
		file:  sourceName,
		input: text,
		line:  1,
		col:   1,
	}
	return p.parse()
}

type parser struct {
	file  string
	input string
	pos   int
	line  int
	col   int
}

func (p *parser) parse() (*Node, error) {
	root := NewRoot(p.file)
	stack := []*Node{root}

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		top := stack[len(stack)-1]
		loc := p.loc()

		switch ch := p.peek(); {
		case ch == '#':
			top.AddChild(newComment(p.readComment(), loc))
		case ch == '[':
			name, closing, err := p.readHeader()
			if err != nil {
				return nil, err
			}
			if closing {
				if len(stack) == 1 {
					return nil, p.errorf(loc, "extra section close with no open section")
				}
				stack = stack[:len(stack)-1]
				continue
			}
			sec := NewSection(name, loc)
			top.AddChild(sec)
			stack = append(stack, sec)
		case isNameChar(ch):
			f, err := p.readField()
			if err != nil {
				return nil, err
			}
			top.AddChild(f)
		default:
			return nil, p.errorf(loc, "unexpected character %q", ch)
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, p.errorf(open.Location(), "missing close for section '[%s]'", open.Name())
	}
	return root, nil
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte { return p.input[p.pos] }

func (p *parser) loc() Location {
	return Location{File: p.file, Line: p.line, Column: p.col}
}

func (p *parser) errorf(loc Location, format string, args ...any) error {
	return &SyntaxError{Location: loc, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) advance() {
	if p.eof() {
		return
	}
	if p.input[p.pos] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) readComment() string {
	p.advance() // #
	start := p.pos
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
	return strings.TrimRight(p.input[start:p.pos], " \t\r")
}

// readHeader consumes "[...]". It reports whether the header closes the
// current section ("[]" or "[../]").
func (p *parser) readHeader() (string, bool, error) {
	open := p.loc()
	p.advance() // [
	start := p.pos
	for !p.eof() && p.peek() != ']' && p.peek() != '\n' {
		p.advance()
	}
	if p.eof() || p.peek() != ']' {
		return "", false, p.errorf(open, "missing ']' in section header")
	}
	content := strings.TrimSpace(p.input[start:p.pos])
	p.advance() // ]

	if content == "" || content == "../" {
		return "", true, nil
	}
	name := strings.TrimPrefix(content, "./")
	if name == "" {
		return "", false, p.errorf(open, "empty section name")
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !isNameChar(byte(r)) {
			return "", false, p.errorf(open, "invalid character %q in section name '%s'", r, name)
		}
	}
	return name, false, nil
}

func (p *parser) readField() (*Node, error) {
	loc := p.loc()
	start := p.pos
	for !p.eof() && isNameChar(p.peek()) {
		p.advance()
	}
	name := p.input[start:p.pos]

	p.skipSpace()
	if p.eof() || p.peek() != '=' {
		return nil, p.errorf(loc, "missing '=' after field name '%s'", name)
	}
	p.advance() // =
	p.skipSpace()
	if p.eof() || p.peek() == '[' {
		return nil, p.errorf(loc, "missing value for field '%s'", name)
	}

	f := NewField(name, "", loc)
	if q := p.peek(); q == '\'' || q == '"' {
		v, err := p.readQuoted(q)
		if err != nil {
			return nil, err
		}
		f.value = v
		f.quote = q
		return f, nil
	}

	v, err := p.readWord()
	if err != nil {
		return nil, err
	}
	f.value = v
	return f, nil
}

// readQuoted reads one or more adjacent strings quoted with q and returns
// their concatenation. Only the active quote character can be escaped.
func (p *parser) readQuoted(q byte) (string, error) {
	var b strings.Builder
	for {
		open := p.loc()
		p.advance() // opening quote
		closed := false
		for !p.eof() {
			ch := p.peek()
			if ch == '\\' && p.pos+1 < len(p.input) && p.input[p.pos+1] == q {
				p.advance()
				b.WriteByte(q)
				p.advance()
				continue
			}
			if ch == q {
				p.advance()
				closed = true
				break
			}
			b.WriteByte(ch)
			p.advance()
		}
		if !closed {
			return "", p.errorf(open, "unterminated string")
		}

		if !p.eof() && (p.peek() == '\'' || p.peek() == '"') && p.peek() != q {
			return "", p.errorf(p.loc(), "mismatched quote after string")
		}

		// Adjacent strings with the same quote are joined, even across lines.
		save := *p
		p.skipSpace()
		if p.eof() || p.peek() != q {
			*p = save
			return b.String(), nil
		}
	}
}

// readWord reads an unquoted value. ${...} markers may contain spaces.
func (p *parser) readWord() (string, error) {
	start := p.pos
	for !p.eof() {
		ch := p.peek()
		if isSpace(ch) || ch == '[' {
			break
		}
		if ch == '$' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '{' {
			open := p.loc()
			depth := 0
			for !p.eof() {
				c := p.peek()
				p.advance()
				if c == '{' {
					depth++
				} else if c == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if depth != 0 {
				return "", p.errorf(open, "unterminated ${ marker")
			}
			continue
		}
		p.advance()
	}
	return p.input[start:p.pos], nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isNameChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.IndexByte("_./:<>-+*", ch) >= 0
}
