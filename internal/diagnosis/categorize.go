package diagnosis

import "strings"

// CategoryTable maps raw detector labels onto fusion categories by substring
// match. It stands in for a purpose-trained weed/pest classifier: the keyword
// lists are configuration, so a real classifier can replace the table without
// touching the fusion rules.
type CategoryTable struct {
	weedKeywords []string
	pestKeywords []string
}

// NewCategoryTable builds a table from keyword lists. Matching is
// case-insensitive; keywords are lowered once here.
func NewCategoryTable(weedKeywords, pestKeywords []string) *CategoryTable {
	return &CategoryTable{
		weedKeywords: lowerAll(weedKeywords),
		pestKeywords: lowerAll(pestKeywords),
	}
}

// DefaultCategoryTable mirrors the demo heuristic over a generic COCO-style
// label set. Weed keywords win over pest keywords on overlap.
func DefaultCategoryTable() *CategoryTable {
	return NewCategoryTable(
		[]string{"plant", "potted plant"},
		[]string{"bird", "insect", "bee"},
	)
}

// Categorize returns the fusion category for a raw detector label.
// Labels matching no keyword map to CategoryNone.
func (t *CategoryTable) Categorize(label string) Category {
	l := strings.ToLower(label)
	for _, kw := range t.weedKeywords {
		if kw != "" && strings.Contains(l, kw) {
			return CategoryWeed
		}
	}
	for _, kw := range t.pestKeywords {
		if kw != "" && strings.Contains(l, kw) {
			return CategoryPest
		}
	}
	return CategoryNone
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
