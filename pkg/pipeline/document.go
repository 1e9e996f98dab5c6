package pipeline

import "strings"

// SectionView is one section of the assembled document.
type SectionView struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Document is the accumulating artifact: an ordered mapping from section
// path to the latest accepted text. Sections keep first-seen order;
// re-committing a path overwrites cleanly.
type Document struct {
	order    []string
	sections map[string]string
}

func NewDocument() *Document {
	return &Document{sections: make(map[string]string)}
}

// Set stores text under path, overwriting any prior value.
func (d *Document) Set(path, text string) {
	if _, seen := d.sections[path]; !seen {
		d.order = append(d.order, path)
	}
	d.sections[path] = text
}

// Section returns the text stored under path.
func (d *Document) Section(path string) (string, bool) {
	text, ok := d.sections[path]
	return text, ok
}

// Len returns the number of populated sections.
func (d *Document) Len() int {
	return len(d.order)
}

// Sections returns the populated sections in commit order.
func (d *Document) Sections() []SectionView {
	out := make([]SectionView, 0, len(d.order))
	for _, path := range d.order {
		out = append(out, SectionView{Path: path, Text: d.sections[path]})
	}
	return out
}

// Complete reports whether every section path of the plan is populated.
func (d *Document) Complete(plan *Plan) bool {
	for _, path := range plan.SectionPaths() {
		if _, ok := d.sections[path]; !ok {
			return false
		}
	}
	return true
}

// Render joins the populated sections into one markdown document.
// Presentation beyond a heading per section is left to the consumer.
func (d *Document) Render() string {
	var b strings.Builder
	for i, path := range d.order {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(path)
		b.WriteString("\n\n")
		b.WriteString(d.sections[path])
	}
	return b.String()
}
