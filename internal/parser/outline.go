package parser

import (
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
)

// outline nests headings by level as they arrive in document order and
// attaches body text to the innermost open heading.
type outline struct {
	root  *doctree.DocNode
	stack []outlineEntry
	text  strings.Builder
}

type outlineEntry struct {
	node  *doctree.DocNode
	level int
}

func newOutline() *outline {
	root := &doctree.DocNode{}
	return &outline{root: root, stack: []outlineEntry{{node: root}}}
}

// heading opens a section. Levels outside 1-6 are clamped.
func (o *outline) heading(n *doctree.DocNode) {
	o.flush()
	n.Level = min(max(n.Level, 1), 6)
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= n.Level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].node
	parent.Children = append(parent.Children, n)
	o.stack = append(o.stack, outlineEntry{node: n, level: n.Level})
}

// paragraph queues a block of body text for the current section.
func (o *outline) paragraph(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if o.text.Len() > 0 {
		o.text.WriteString("\n\n")
	}
	o.text.WriteString(t)
}

func (o *outline) flush() {
	if o.text.Len() == 0 {
		return
	}
	top := o.stack[len(o.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n"
	}
	top.Text += o.text.String()
	o.text.Reset()
}

// into moves the collected sections onto tree. Text before the first
// heading becomes an untitled leading section.
func (o *outline) into(tree *doctree.DocTree) {
	o.flush()
	if o.root.Text != "" {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: o.root.Text})
	}
	tree.Children = append(tree.Children, o.root.Children...)
}
