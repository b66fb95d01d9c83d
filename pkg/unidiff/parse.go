package unidiff

import "strings"

// FileSection groups the verbatim header block of one file in a multi-file
// diff together with references to the hunks that belong to it.
type FileSection struct {
	// Headers holds the raw lines from the "diff --git" marker through the
	// last metadata line before the first hunk, stored without trailing
	// newlines. A section synthesized for a headerless hunk may be empty.
	Headers []string
	// Hunks indexes into the hunk collection returned alongside the
	// sections, in file order.
	Hunks []int
	// Label summarizes the old and new paths for display. It is derived
	// once at parse time and never consulted for correctness.
	Label string
}

// Hunk is one contiguous change block introduced by an "@@" range marker.
type Hunk struct {
	// Header is the raw marker line, verbatim including trailing text.
	Header string
	// Body holds the raw hunk lines: context, additions, deletions and the
	// backslash no-newline marker, byte for byte.
	Body []string
	// File is the index of the owning FileSection.
	File int
	// Marked reports whether the hunk is selected for output. It is the
	// only field mutated after parsing.
	Marked bool
	// Preview is a single-line summary used by list renderings.
	Preview string
}

// Parse scans text for unified-diff structure and returns the file sections
// and the hunks they contain, both in input order. It expects text that has
// already passed through Normalize.
//
// Parse never fails. Input without diff markers produces empty collections,
// and a hunk with no preceding file marker lands in a synthesized section
// built from whatever preamble lines came before it. Callers decide whether
// an empty result is an error.
func Parse(text string) ([]FileSection, []Hunk) {
	var (
		files   []FileSection
		hunks   []Hunk
		current = -1
		pending []string
		inHunk  bool
		header  string
		body    []string
	)

	flushHunk := func() {
		if !inHunk {
			return
		}
		inHunk = false
		if header == "" {
			return
		}
		files[current].Hunks = append(files[current].Hunks, len(hunks))
		hunks = append(hunks, Hunk{
			Header:  header,
			Body:    body,
			File:    current,
			Preview: makePreview(header, body),
		})
		header = ""
		body = nil
	}

	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushHunk()
			files = append(files, FileSection{Headers: []string{line}})
			current = len(files) - 1
		case isHunkMarker(line):
			flushHunk()
			if current < 0 {
				files = append(files, FileSection{Headers: pending})
				pending = nil
				current = len(files) - 1
			}
			inHunk = true
			header = line
			body = nil
		case inHunk:
			body = append(body, line)
		case current >= 0:
			files[current].Headers = append(files[current].Headers, line)
		default:
			pending = append(pending, line)
		}
	}
	flushHunk()

	for i := range files {
		files[i].Label = fileLabel(files[i].Headers)
	}
	return files, hunks
}

// isHunkMarker reports whether line opens a hunk. Besides the standard
// "@@ -a,b +c,d @@" form, two spellings without the space after the marker
// token appear in the wild and are accepted as-is.
func isHunkMarker(line string) bool {
	return strings.HasPrefix(line, "@@ ") ||
		strings.HasPrefix(line, "@@-") ||
		strings.HasPrefix(line, "@@+")
}

// makePreview joins the trimmed hunk header with the trimmed first content
// line of the body. A body with no context, addition or deletion lines
// yields the header alone.
func makePreview(header string, body []string) string {
	for _, line := range body {
		if line == "" {
			continue
		}
		switch line[0] {
		case ' ', '+', '-':
			return strings.TrimSpace(header) + "  —  " + strings.TrimSpace(line)
		}
	}
	return strings.TrimSpace(header)
}

// fileLabel renders "old → new" from a section's header lines. The
// "diff --git" tokens seed both sides; explicit "---"/"+++" markers override
// them when present. A side that stays unknown renders as "?", and a section
// with no usable markers at all renders as "file".
func fileLabel(headers []string) string {
	var from, to string
	for _, line := range headers {
		if strings.HasPrefix(line, "diff --git ") {
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				from = fields[2]
				to = fields[3]
			}
			continue
		}
		if rest, ok := strings.CutPrefix(line, "--- "); ok {
			from = strings.TrimSpace(rest)
			continue
		}
		if rest, ok := strings.CutPrefix(line, "+++ "); ok {
			to = strings.TrimSpace(rest)
		}
	}
	if from == "" && to == "" {
		return "file"
	}
	if from == "" {
		from = "?"
	}
	if to == "" {
		to = "?"
	}
	return from + " → " + to
}

// splitLines splits on newlines without producing a phantom empty line for
// text that ends in a newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
