package parser

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParse_TrailingBlock(t *testing.T) {
	input := []byte("C4 D4 E4 F4 | G2 G2\n\n---\ntitle: Scale Study\ncomposer: Anon\n---\n")
	r := Parse(input)
	if r.Notation != "C4 D4 E4 F4 | G2 G2" {
		t.Errorf("notation = %q", r.Notation)
	}
	if r.Metadata["title"] != "Scale Study" {
		t.Errorf("title = %q, want %q", r.Metadata["title"], "Scale Study")
	}
	if r.Metadata["composer"] != "Anon" {
		t.Errorf("composer = %q, want %q", r.Metadata["composer"], "Anon")
	}
}

func TestParse_HyphenKeysBecomeCamelCase(t *testing.T) {
	input := []byte("G4 A4\n---\ntime-signature: 3/4\nkey-signature: Dm\nfirst-performed-at: Vienna\n---\n")
	r := Parse(input)
	for key, want := range map[string]string{
		"timeSignature":    "3/4",
		"keySignature":     "Dm",
		"firstPerformedAt": "Vienna",
	} {
		if got := r.Metadata[key]; got != want {
			t.Errorf("metadata[%q] = %q, want %q", key, got, want)
		}
	}
	if _, ok := r.Metadata["time-signature"]; ok {
		t.Error("hyphenated key leaked into metadata")
	}
}

func TestParse_ValuesStringified(t *testing.T) {
	input := []byte("E4\n---\ntempo: 120\nswing: 4.5\ntransposed: true\n---\n")
	r := Parse(input)
	if r.Metadata["tempo"] != "120" {
		t.Errorf("tempo = %q, want %q", r.Metadata["tempo"], "120")
	}
	if r.Metadata["swing"] != "4.5" {
		t.Errorf("swing = %q, want %q", r.Metadata["swing"], "4.5")
	}
	if r.Metadata["transposed"] != "true" {
		t.Errorf("transposed = %q, want %q", r.Metadata["transposed"], "true")
	}
}

func TestParse_NoMarkers(t *testing.T) {
	input := []byte("  A4 B4 C5\nD5 E5\n")
	r := Parse(input)
	if r.Notation != "A4 B4 C5\nD5 E5" {
		t.Errorf("notation = %q", r.Notation)
	}
	if len(r.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty", r.Metadata)
	}
	if r.Metadata == nil {
		t.Error("metadata must be an empty map, not nil")
	}
}

func TestParse_SingleMarker(t *testing.T) {
	input := []byte("A4\n---\ntitle: Dangling\n")
	r := Parse(input)
	if len(r.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty", r.Metadata)
	}
	if r.Notation != "A4\n---\ntitle: Dangling" {
		t.Errorf("notation = %q", r.Notation)
	}
}

func TestParse_MarkerInsideBody(t *testing.T) {
	// A literal "---" separator in the notation body must not be taken
	// for a block delimiter; the backward scan pairs the last two.
	input := []byte("part one\n---\npart two\n---\ncomposer: Bach\n---\n")
	r := Parse(input)
	if r.Metadata["composer"] != "Bach" {
		t.Errorf("composer = %q, want Bach", r.Metadata["composer"])
	}
	if r.Notation != "part one\n---\npart two" {
		t.Errorf("notation = %q", r.Notation)
	}
}

func TestParse_EmptyBlock(t *testing.T) {
	// Adjacent markers delimit a zero-line block: metadata stays empty
	// but the notation is still sliced off the block.
	input := []byte("B4 C5\n---\n---\n")
	r := Parse(input)
	if len(r.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty", r.Metadata)
	}
	if r.Notation != "B4 C5" {
		t.Errorf("notation = %q", r.Notation)
	}
}

func TestParse_MalformedBlock(t *testing.T) {
	input := []byte("D4\n---\n: not: valid: yaml: {{{\n---\n")
	r := Parse(input)
	if len(r.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty on malformed block", r.Metadata)
	}
	// Notation extraction is unaffected by the decode failure.
	if r.Notation != "D4" {
		t.Errorf("notation = %q", r.Notation)
	}
}

func TestParse_IndentedMarkersIgnoredWhenNotExact(t *testing.T) {
	// Marker lines are matched on trimmed content, so surrounding
	// whitespace is fine; longer dashes are not markers.
	input := []byte("F4\n  ---  \ntitle: Indented\n---\n")
	r := Parse(input)
	if r.Metadata["title"] != "Indented" {
		t.Errorf("title = %q", r.Metadata["title"])
	}

	input = []byte("F4\n----\ntitle: Nope\n----\n")
	r = Parse(input)
	if len(r.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty for ---- lines", r.Metadata)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	meta := map[string]any{
		"title":          "Minuet in G",
		"composer":       "Petzold",
		"time-signature": "3/4",
		"tempo":          104,
		"public-domain":  true,
	}
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	body := "D5 G3 B3 D4 | E5 G3 C4 E4"
	doc := body + "\n---\n" + string(encoded) + "---\n"

	r := Parse([]byte(doc))
	if r.Notation != body {
		t.Errorf("notation = %q, want %q", r.Notation, body)
	}
	want := map[string]string{
		"title":         "Minuet in G",
		"composer":      "Petzold",
		"timeSignature": "3/4",
		"tempo":         "104",
		"publicDomain":  "true",
	}
	if len(r.Metadata) != len(want) {
		t.Fatalf("metadata = %v, want %v", r.Metadata, want)
	}
	for k, v := range want {
		if r.Metadata[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, r.Metadata[k], v)
		}
	}
}

func TestCamelKey(t *testing.T) {
	cases := map[string]string{
		"title":             "title",
		"time-signature":    "timeSignature",
		"a-b-c":             "aBC",
		"key-signature":     "keySignature",
		"already-Camel":     "already-Camel",
		"trailing-":         "trailing-",
		"first-performed-i": "firstPerformedI",
	}
	for in, want := range cases {
		if got := camelKey(in); got != want {
			t.Errorf("camelKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindBlock_Positions(t *testing.T) {
	lines := []string{"body", "---", "k: v", "---", ""}
	start, end := findBlock(lines)
	if start != 1 || end != 3 {
		t.Errorf("findBlock = (%d, %d), want (1, 3)", start, end)
	}

	start, end = findBlock([]string{"no", "markers"})
	if start != -1 || end != -1 {
		t.Errorf("findBlock = (%d, %d), want (-1, -1)", start, end)
	}
}
