package mcpserver

// ScoreFormatContract describes the notation document format served by
// the catalog, for MCP consumers that render or generate scores.
const ScoreFormatContract = `# Segno Score Document Format

Every score in the library is a plain-text file with two segments: the
notation body, then a trailing metadata block.

## Structure

` + "```" + `
<notation body — opaque text, may span many lines>

---
title: Star Wars Theme
composer: John Williams
time-signature: 4/4
tempo: 120
key-signature: Dm
---
` + "```" + `

## Rules

1. **The metadata block comes last.** It is delimited by two lines whose
   content is exactly ` + "`---`" + `. The catalog scans from the end of the
   file, so a literal ` + "`---`" + ` inside the notation body is harmless as
   long as the real block is the final content.
2. **The block is a YAML scalar mapping** (string/number/boolean values;
   no nesting). Hyphenated keys are exposed in camelCase, e.g.
   ` + "`time-signature`" + ` becomes ` + "`timeSignature`" + `.
3. **All metadata is optional.** A file without a block is a valid score
   whose entire content is notation.
4. **Well-known keys** — ` + "`title`" + `, ` + "`composer`" + `,
   ` + "`time-signature`" + `, ` + "`tempo`" + `, ` + "`key-signature`" + ` — drive the
   filter and search tools. Other keys are preserved in the open
   metadata map.
5. **Paths are slash-separated and relative to the library root**, e.g.
   ` + "`ensemble/star-wars.gen`" + `. The first segment is the score's
   category; the directory portion is its full category.
6. **Encoding** is UTF-8.
`
