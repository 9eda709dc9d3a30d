package doctree

import (
	"math"
	"strings"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Text joins the text of every node in document order.
func Text(tree *DocTree) string {
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(n.Text)
			}
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return sb.String()
}

// WordCount counts whitespace-separated words across headings and text.
func WordCount(tree *DocTree) int {
	count := 0
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			count += len(strings.Fields(n.Title))
			count += len(strings.Fields(n.Text))
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return count
}

// ReadingMinutes estimates reading time, rounding up. Any non-empty page
// takes at least one minute.
func ReadingMinutes(tree *DocTree) int {
	words := WordCount(tree)
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}
