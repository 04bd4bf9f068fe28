package sheetcore

// Hyperlink is a cell value that renders as text and links to a URL.
type Hyperlink struct {
	URL     string
	Display string
}

// String returns the display text, or the URL when there is none.
func (h Hyperlink) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}
