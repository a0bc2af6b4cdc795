// Package score defines the domain types for Segno.
package score

import "strings"

// Metadata keys projected onto dedicated Score fields. Everything else
// stays in the open-ended Metadata bag.
const (
	KeyTitle         = "title"
	KeyComposer      = "composer"
	KeyTimeSignature = "timeSignature"
	KeyTempo         = "tempo"
	KeyKeySignature  = "keySignature"
)

// Score represents one parsed notation document in the library.
// Records are immutable once constructed.
type Score struct {
	Path         string            `json:"path"`
	Filename     string            `json:"filename"`
	Category     string            `json:"category"`
	FullCategory string            `json:"fullCategory"`
	Content      string            `json:"content"`
	Notation     string            `json:"notation"`
	Metadata     map[string]string `json:"metadata"`
	Checksum     string            `json:"checksum"`

	Title         string `json:"title,omitempty"`
	Composer      string `json:"composer,omitempty"`
	TimeSignature string `json:"timeSignature,omitempty"`
	Tempo         string `json:"tempo,omitempty"`
	KeySignature  string `json:"keySignature,omitempty"`
}

// New constructs a Score from its library-relative slash path, the raw
// file content, and the parsed notation/metadata split. Category fields
// are derived from the path: category is the first segment, fullCategory
// is every segment except the filename.
func New(relPath, content, notation string, metadata map[string]string, checksum string) Score {
	if metadata == nil {
		metadata = map[string]string{}
	}
	segments := strings.Split(relPath, "/")

	s := Score{
		Path:         relPath,
		Filename:     segments[len(segments)-1],
		Category:     segments[0],
		FullCategory: strings.Join(segments[:len(segments)-1], "/"),
		Content:      content,
		Notation:     notation,
		Metadata:     metadata,
		Checksum:     checksum,
	}

	s.Title = metadata[KeyTitle]
	s.Composer = metadata[KeyComposer]
	s.TimeSignature = metadata[KeyTimeSignature]
	s.Tempo = metadata[KeyTempo]
	s.KeySignature = metadata[KeyKeySignature]

	return s
}
