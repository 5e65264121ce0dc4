package document

import "github.com/specialistvlad/hitbuild/internal/diag"

// CheckDuplicates reports every field path and every explicitly written
// section path that occurs more than once in the tree. Each repeat names the
// first occurrence. The tree should be exploded first.
func CheckDuplicates(root *Node) error {
	var errs diag.Errors
	firstField := make(map[string]*Node)
	firstSection := make(map[string]*Node)

	Walk(root, WalkerFunc(func(path string, n *Node) bool {
		switch {
		case n.kind == KindField:
			if first, ok := firstField[path]; ok {
				errs.Add(&DuplicateError{Kind: DuplicateParameter, Path: path, At: n.loc, First: first.loc})
				return true
			}
			firstField[path] = n
		case n.kind == KindSection && !n.implicit:
			if first, ok := firstSection[path]; ok {
				errs.Add(&DuplicateError{Kind: DuplicateSection, Path: path, At: n.loc, First: first.loc})
				return true
			}
			firstSection[path] = n
		}
		return true
	}))

	return errs.ErrorOrNil()
}
