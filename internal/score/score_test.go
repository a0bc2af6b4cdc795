package score

import "testing"

func TestNew_PathDerivation(t *testing.T) {
	s := New("classical/baroque/minuet.gen", "content", "notation", nil, "abc")
	if s.Filename != "minuet.gen" {
		t.Errorf("filename = %q", s.Filename)
	}
	if s.Category != "classical" {
		t.Errorf("category = %q", s.Category)
	}
	if s.FullCategory != "classical/baroque" {
		t.Errorf("fullCategory = %q", s.FullCategory)
	}
}

func TestNew_TopLevelFileCategoryEqualsFullCategory(t *testing.T) {
	s := New("ensemble/star-wars.gen", "", "", nil, "")
	if s.Category != "ensemble" || s.FullCategory != "ensemble" {
		t.Errorf("category = %q, fullCategory = %q, want both ensemble", s.Category, s.FullCategory)
	}
}

func TestNew_ProjectedFields(t *testing.T) {
	meta := map[string]string{
		"title":         "Minuet in G",
		"composer":      "Petzold",
		"timeSignature": "3/4",
		"tempo":         "104",
		"keySignature":  "G",
		"arranger":      "Unknown",
	}
	s := New("classical/minuet.gen", "c", "n", meta, "sum")
	if s.Title != "Minuet in G" || s.Composer != "Petzold" {
		t.Errorf("projections = %q / %q", s.Title, s.Composer)
	}
	if s.TimeSignature != "3/4" || s.Tempo != "104" || s.KeySignature != "G" {
		t.Errorf("projections = %q / %q / %q", s.TimeSignature, s.Tempo, s.KeySignature)
	}
	// The open bag keeps unprojected keys.
	if s.Metadata["arranger"] != "Unknown" {
		t.Errorf("metadata bag lost arranger: %v", s.Metadata)
	}
}

func TestNew_NilMetadataBecomesEmptyMap(t *testing.T) {
	s := New("a/b.gen", "", "", nil, "")
	if s.Metadata == nil {
		t.Fatal("metadata must never be nil")
	}
	if s.Title != "" || s.Composer != "" {
		t.Errorf("projections should be empty, got %q / %q", s.Title, s.Composer)
	}
}
