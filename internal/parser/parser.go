// Package parser splits a notation document into its notation body and
// the trailing metadata block.
package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// marker delimits the metadata block. A line whose trimmed content is
// exactly this string counts as a delimiter.
const marker = "---"

var hyphenRe = regexp.MustCompile(`-([a-z])`)

// Result holds the output of parsing a notation document.
type Result struct {
	Notation string
	Metadata map[string]string
}

// Parse splits raw document bytes into the notation body and the decoded
// metadata mapping. It is total: a missing or malformed metadata block
// degrades to an empty map, never an error. Notation is the body trimmed
// of surrounding whitespace.
func Parse(data []byte) Result {
	text := string(data)
	lines := strings.Split(text, "\n")

	start, end := findBlock(lines)
	if start < 0 {
		return Result{
			Notation: strings.TrimSpace(text),
			Metadata: map[string]string{},
		}
	}

	notation := strings.TrimSpace(strings.Join(lines[:start], "\n"))
	block := strings.Join(lines[start+1:end], "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		slog.Warn("parser: invalid metadata block",
			slog.String("error", err.Error()))
		return Result{Notation: notation, Metadata: map[string]string{}}
	}

	return Result{Notation: notation, Metadata: normalize(raw)}
}

// findBlock scans the lines from the end toward the start and returns the
// indexes of the two marker lines enclosing the metadata block, or (-1, -1)
// when no well-formed pair exists. Scanning backward means a literal "---"
// inside the notation body is never mistaken for a delimiter as long as
// the real block is the final content of the file.
func findBlock(lines []string) (start, end int) {
	start, end = -1, -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != marker {
			continue
		}
		if end < 0 {
			end = i
			continue
		}
		start = i
		break
	}
	if start < 0 || start >= end {
		return -1, -1
	}
	return start, end
}

// normalize flattens decoded metadata into a string map: keys go from
// hyphen-case to camelCase, values are rendered as text whatever their
// YAML type.
func normalize(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[camelKey(k)] = stringify(v)
	}
	return out
}

// camelKey rewrites each "-x" sequence (hyphen followed by a lowercase
// letter) to the uppercase letter, so "time-signature" becomes
// "timeSignature". Repeats until the key is stable.
func camelKey(k string) string {
	for {
		next := hyphenRe.ReplaceAllStringFunc(k, func(m string) string {
			return strings.ToUpper(m[1:])
		})
		if next == k {
			return next
		}
		k = next
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
