package doctree

// DocTree is the root of a parsed content page.
type DocTree struct {
	Title    string     // Page title (front matter, <title>, or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Level    int        // Heading level 1-6; 0 for untitled or synthetic sections
	TabDepth int        // Number of enclosing <Tabs> blocks
	Anchor   string     // Explicit anchor id from the source, if any
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}
