package unidiff

import "strings"

// Write serializes the marked hunks grouped under their owning file headers,
// in parse order. It is a pure function of the model: every call rebuilds the
// full output, so the result always reflects the current marks with no drift
// from earlier writes.
//
// A file whose hunks are all unmarked contributes nothing, headers included.
// Every emitted line is the stored bytes followed by a newline; nothing is
// trimmed, wrapped or otherwise reformatted.
func Write(files []FileSection, hunks []Hunk) string {
	var out strings.Builder
	for _, file := range files {
		var selected []int
		for _, id := range file.Hunks {
			if hunks[id].Marked {
				selected = append(selected, id)
			}
		}
		if len(selected) == 0 {
			continue
		}
		for _, line := range file.Headers {
			out.WriteString(line)
			out.WriteByte('\n')
		}
		for _, id := range selected {
			out.WriteString(hunks[id].Header)
			out.WriteByte('\n')
			for _, line := range hunks[id].Body {
				out.WriteString(line)
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
