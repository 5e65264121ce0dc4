package document

import (
	"fmt"
	"regexp"
	"strings"
)

// ValueKind is the kind a field's literal text looks like.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
)

func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	default:
		return "string"
	}
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// ValueKind infers the kind of a field from its text. Quoted values are
// always strings.
func (n *Node) ValueKind() ValueKind {
	if n.quote != 0 {
		return ValueString
	}
	v := strings.TrimSpace(n.value)
	switch {
	case isBoolWord(v):
		return ValueBool
	case intPattern.MatchString(v):
		return ValueInt
	case floatPattern.MatchString(v):
		return ValueFloat
	}
	return ValueString
}

// StrVal returns the unquoted field value.
func (n *Node) StrVal() string { return n.value }

// VecStrVal splits the field value on whitespace.
func (n *Node) VecStrVal() []string { return strings.Fields(n.value) }

// BoolVal interprets the field value as a boolean.
func (n *Node) BoolVal() (bool, error) { return ParseBool(n.value) }

// ParseBool accepts true/on/yes and false/off/no in any letter case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes":
		return true, nil
	case "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value '%s'", s)
}

func isBoolWord(s string) bool {
	_, err := ParseBool(s)
	return err == nil
}
