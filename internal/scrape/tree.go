package scrape

// Fragment is a read-only element handle in the source tree.
type Fragment interface {
	// Find returns the first descendant matching the CSS selector sel, or
	// nil when there is none.
	Find(sel string) Fragment
	// Text returns the element's rendered text.
	Text() string
}

// TreeQuery is the lookup capability the scanner needs from a document.
// Implementations must return a nil interface, not a typed nil, when
// nothing matches.
type TreeQuery interface {
	// FindAllIn returns, in document order, every element matching sel
	// inside the elements matching scope.
	FindAllIn(scope, sel string) ([]Fragment, error)
	// FindNextSiblingMatching returns the element immediately following f
	// when it matches any of shapes, or nil.
	FindNextSiblingMatching(f Fragment, shapes []string) Fragment
}
