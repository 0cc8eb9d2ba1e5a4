package genius

import "testing"

func TestExtract_TwoContainers(t *testing.T) {
	page := `<html><body>
<div data-lyrics-container="true">A<br/>B</div>
<p>not lyrics</p>
<div data-lyrics-container="true">C</div>
</body></html>`

	got := Extract(page)

	if got.Text != "A\nB\n\nC" {
		t.Errorf("Expected %q, got %q", "A\nB\n\nC", got.Text)
	}
	if got.Containers != 2 {
		t.Errorf("Expected 2 containers, got %d", got.Containers)
	}
	if !got.Found() {
		t.Error("Expected Found() to be true")
	}
}

func TestExtract_NestedMarkup(t *testing.T) {
	page := `<div data-lyrics-container="true"><a href="#"><span>First</span></a><br>Second <i>line</i></div>`

	got := Extract(page)

	expected := "First\nSecond \nline"
	if got.Text != expected {
		t.Errorf("Expected %q, got %q", expected, got.Text)
	}
}

func TestExtract_NoContainers(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"plain page", `<html><body><div class="lyrics">Hello</div></body></html>`},
		{"attribute false", `<div data-lyrics-container="false">Hello</div>`},
		{"wrong element", `<section data-lyrics-container="true">Hello</section>`},
		{"empty document", ``},
		{"garbage", `<<<>>>not html at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.page)
			if got.Text != "" {
				t.Errorf("Expected empty text, got %q", got.Text)
			}
			if got.Found() {
				t.Error("Expected Found() to be false")
			}
		})
	}
}

func TestExtract_EmptyContainerIsFound(t *testing.T) {
	got := Extract(`<div data-lyrics-container="true"></div>`)

	if got.Text != "" {
		t.Errorf("Expected empty text, got %q", got.Text)
	}
	if !got.Found() {
		t.Error("Expected an empty container to still count as found")
	}
}

func TestExtract_ThenNormalize(t *testing.T) {
	page := `<div data-lyrics-container="true">[Chorus]<br/>Hello</div><div data-lyrics-container="true">[Verse]<br/>World</div>`

	got := Normalize(Extract(page).Text)
	if got != "Hello World" {
		t.Errorf("Expected %q, got %q", "Hello World", got)
	}
}
