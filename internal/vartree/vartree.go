// Package vartree rebuilds nested variable trees from flat, dot-keyed
// variable lists such as integration component inputs.
package vartree

import (
	"errors"
	"fmt"
	"strings"
)

// CategoryType is the type given to synthesized parent nodes.
const CategoryType = "category"

var (
	// ErrInvalidKey marks keys that are empty or contain empty segments.
	ErrInvalidKey = errors.New("invalid variable key")
	// ErrDuplicateKey marks a key seen more than once.
	ErrDuplicateKey = errors.New("duplicate variable key")
)

// KeyError reports a rejected record.
type KeyError struct {
	Index int
	Key   string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("variable %d %q: %v", e.Index, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// Variable is one flat input record. Required is nil when unknown.
type Variable struct {
	Key         string `json:"key" yaml:"key"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description"`
	Required    *bool  `json:"required" yaml:"required"`
	Highlight   bool   `json:"highlight,omitempty" yaml:"highlight"`
}

// Node is a Variable with its nested children.
type Node struct {
	Variable
	Variables []*Node `json:"variables,omitempty"`
}

// Build validates vars and un-flattens them into a forest. Roots and
// children keep first-seen order.
func Build(vars []Variable) ([]*Node, error) {
	seen := make(map[string]struct{}, len(vars))
	for i, v := range vars {
		if err := checkKey(v.Key); err != nil {
			return nil, &KeyError{Index: i, Key: v.Key, Err: err}
		}
		if _, dup := seen[v.Key]; dup {
			return nil, &KeyError{Index: i, Key: v.Key, Err: ErrDuplicateKey}
		}
		seen[v.Key] = struct{}{}
	}
	return build(vars), nil
}

// BuildLenient drops invalid and duplicate records (the first occurrence
// of a key wins) and returns the rejected ones alongside the tree.
func BuildLenient(vars []Variable) ([]*Node, []*KeyError) {
	var rejected []*KeyError
	kept := make([]Variable, 0, len(vars))
	seen := make(map[string]struct{}, len(vars))
	for i, v := range vars {
		if err := checkKey(v.Key); err != nil {
			rejected = append(rejected, &KeyError{Index: i, Key: v.Key, Err: err})
			continue
		}
		if _, dup := seen[v.Key]; dup {
			rejected = append(rejected, &KeyError{Index: i, Key: v.Key, Err: ErrDuplicateKey})
			continue
		}
		seen[v.Key] = struct{}{}
		kept = append(kept, v)
	}
	return build(kept), rejected
}

func checkKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, seg := range strings.Split(key, ".") {
		if seg == "" {
			return ErrInvalidKey
		}
	}
	return nil
}

// build assumes keys are valid and unique. Records are placed in order of
// increasing depth so that every parent exists, or is synthesized, before
// its children are attached.
func build(vars []Variable) []*Node {
	maxDepth := 0
	for _, v := range vars {
		if d := strings.Count(v.Key, ".") + 1; d > maxDepth {
			maxDepth = d
		}
	}

	var roots []*Node
	for depth := 1; depth <= maxDepth; depth++ {
		for _, v := range vars {
			segments := strings.Split(v.Key, ".")
			if len(segments) != depth {
				continue
			}
			node := &Node{Variable: v}
			if depth == 1 {
				roots = append(roots, node)
				continue
			}

			parent := findOrCreate(&roots, segments[:1])
			for j := 2; j < depth; j++ {
				parent = findOrCreate(&parent.Variables, segments[:j])
			}
			parent.Variables = append(parent.Variables, node)
		}
	}
	return roots
}

// findOrCreate returns the node in list whose key is exactly the joined
// prefix, appending a category placeholder when there is none.
func findOrCreate(list *[]*Node, prefix []string) *Node {
	key := strings.Join(prefix, ".")
	for _, n := range *list {
		if n.Key == key {
			return n
		}
	}
	n := &Node{Variable: Variable{Key: key, Type: CategoryType}}
	*list = append(*list, n)
	return n
}

// Flatten lists every node depth first, parents before children. Feeding
// the result back into Build reproduces the same tree.
func Flatten(roots []*Node) []Variable {
	var out []Variable
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n.Variable)
			walk(n.Variables)
		}
	}
	walk(roots)
	return out
}

// Walk visits every node depth first with its nesting depth (roots are 0).
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var walk func([]*Node, int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Variables, depth+1)
		}
	}
	walk(roots, 0)
}
