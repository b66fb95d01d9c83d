// Package inspect summarizes a parsed patch for display. It feeds the status
// pane of the interactive shell and the header of the non-interactive listing.
package inspect

import (
	"fmt"
	"strings"

	"github.com/patchpick/patchpick/pkg/unidiff"
)

// Report aggregates what a scan of the raw input and its parsed model found.
type Report struct {
	// Files counts sections that own at least one hunk; EmptyFiles counts
	// sections that parsed without any.
	Files      int
	EmptyFiles int

	Hunks     int
	Additions int
	Deletions int
	Context   int
	// NoNewline counts backslash marker lines across all hunk bodies.
	NoNewline int
	// LenientMarkers counts hunk headers using the no-space spellings.
	LenientMarkers int

	// HadCRLF and HadTabs record quirks of the raw input before
	// normalization.
	HadCRLF bool
	HadTabs bool
}

// Scan inspects the raw input text together with the model parsed from its
// normalized form.
func Scan(raw string, files []unidiff.FileSection, hunks []unidiff.Hunk) Report {
	report := scanModel(files, hunks)
	report.HadCRLF = strings.Contains(raw, "\r\n")
	report.HadTabs = strings.Contains(raw, "\t")
	return report
}

func scanModel(files []unidiff.FileSection, hunks []unidiff.Hunk) Report {
	var report Report
	for _, file := range files {
		if len(file.Hunks) == 0 {
			report.EmptyFiles++
			continue
		}
		report.Files++
	}
	report.Hunks = len(hunks)
	for _, hunk := range hunks {
		if !strings.HasPrefix(hunk.Header, "@@ ") {
			report.LenientMarkers++
		}
		for _, line := range hunk.Body {
			if line == "" {
				report.Context++
				continue
			}
			switch line[0] {
			case '+':
				report.Additions++
			case '-':
				report.Deletions++
			case '\\':
				report.NoNewline++
			default:
				report.Context++
			}
		}
	}
	return report
}

// FormatSummary renders the one-line form used by the status pane, for
// example "3 files, 7 hunks (+42/-17)".
func FormatSummary(report Report) string {
	line := fmt.Sprintf("%s, %s (+%d/-%d)",
		plural(report.Files, "file"),
		plural(report.Hunks, "hunk"),
		report.Additions,
		report.Deletions,
	)
	if report.NoNewline > 0 {
		line += fmt.Sprintf(", %d no-newline", report.NoNewline)
	}
	return line
}

// SummaryLines returns the bullet lines for the verbose listing header.
func (r Report) SummaryLines() []string {
	var lines []string

	fileDetail := plural(r.Files, "file")
	if r.EmptyFiles > 0 {
		fileDetail += fmt.Sprintf(" with hunks, %d without", r.EmptyFiles)
	}
	lines = append(lines, "Files: "+fileDetail)
	lines = append(lines, fmt.Sprintf("Hunks: %d (+%d/-%d, %d context)",
		r.Hunks, r.Additions, r.Deletions, r.Context))

	if r.NoNewline > 0 {
		lines = append(lines, fmt.Sprintf("No-newline markers: %d", r.NoNewline))
	}
	if r.LenientMarkers > 0 {
		lines = append(lines, fmt.Sprintf("Lenient hunk markers: %d", r.LenientMarkers))
	}
	if quirks := rawQuirks(r); quirks != "" {
		lines = append(lines, "Input quirks: "+quirks+" (normalized)")
	}

	return lines
}

func rawQuirks(r Report) string {
	var quirks []string
	if r.HadCRLF {
		quirks = append(quirks, "CRLF line endings")
	}
	if r.HadTabs {
		quirks = append(quirks, "tab indentation")
	}
	return strings.Join(quirks, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
