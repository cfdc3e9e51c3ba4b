package diagnosis

import "testing"

func TestCategorize_DefaultTable(t *testing.T) {
	table := DefaultCategoryTable()

	cases := []struct {
		label string
		want  Category
	}{
		{"potted plant", CategoryWeed},
		{"plant", CategoryWeed},
		{"Plant", CategoryWeed},
		{"bird", CategoryPest},
		{"BEE", CategoryPest},
		{"insect", CategoryPest},
		{"person", CategoryNone},
		{"truck", CategoryNone},
		{"", CategoryNone},
	}

	for _, tc := range cases {
		if got := table.Categorize(tc.label); got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestCategorize_SubstringMatch(t *testing.T) {
	table := DefaultCategoryTable()

	// Keyword match is substring-based, so compound labels still categorize.
	if got := table.Categorize("small plant cluster"); got != CategoryWeed {
		t.Fatalf("expected substring weed match, got %q", got)
	}
	if got := table.Categorize("hummingbird"); got != CategoryPest {
		t.Fatalf("expected substring pest match, got %q", got)
	}
}

func TestCategorize_CustomTable(t *testing.T) {
	table := NewCategoryTable([]string{"Thistle "}, []string{"aphid"})

	if got := table.Categorize("creeping thistle"); got != CategoryWeed {
		t.Fatalf("custom weed keyword not honored, got %q", got)
	}
	if got := table.Categorize("green aphid"); got != CategoryPest {
		t.Fatalf("custom pest keyword not honored, got %q", got)
	}
	if got := table.Categorize("plant"); got != CategoryNone {
		t.Fatalf("default keywords must not leak into a custom table, got %q", got)
	}
}

func TestCategorize_WeedWinsOnOverlap(t *testing.T) {
	table := NewCategoryTable([]string{"green"}, []string{"green bug"})

	if got := table.Categorize("green bug"); got != CategoryWeed {
		t.Fatalf("weed keywords are checked first, got %q", got)
	}
}
