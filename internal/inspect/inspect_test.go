package inspect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patchpick/patchpick/pkg/unidiff"
)

func samplePatch() string {
	return strings.Join([]string{
		"diff --git a/alpha.txt b/alpha.txt",
		"--- a/alpha.txt",
		"+++ b/alpha.txt",
		"@@ -1,3 +1,3 @@",
		" one",
		"-two",
		"+TWO",
		" three",
		"diff --git a/untouched.txt b/untouched.txt",
		"diff --git a/beta.txt b/beta.txt",
		"--- a/beta.txt",
		"+++ b/beta.txt",
		"@@-1 +1 @@",
		"-old",
		"+new",
		"\\ No newline at end of file",
	}, "\n") + "\n"
}

func TestScanCountsModel(t *testing.T) {
	t.Parallel()

	raw := samplePatch()
	files, hunks := unidiff.Parse(unidiff.Normalize(raw))
	report := Scan(raw, files, hunks)

	require.Equal(t, 2, report.Files)
	require.Equal(t, 1, report.EmptyFiles)
	require.Equal(t, 2, report.Hunks)
	require.Equal(t, 2, report.Additions)
	require.Equal(t, 2, report.Deletions)
	require.Equal(t, 2, report.Context)
	require.Equal(t, 1, report.NoNewline)
	require.Equal(t, 1, report.LenientMarkers)
	require.False(t, report.HadCRLF)
	require.False(t, report.HadTabs)
}

func TestScanFlagsRawQuirks(t *testing.T) {
	t.Parallel()

	raw := "diff --git a/t b/t\r\n@@ -1 +1 @@\r\n-\told\r\n+new\r\n"
	files, hunks := unidiff.Parse(unidiff.Normalize(raw))
	report := Scan(raw, files, hunks)

	require.True(t, report.HadCRLF)
	require.True(t, report.HadTabs)
	require.Equal(t, 1, report.Hunks)
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	raw := samplePatch()
	files, hunks := unidiff.Parse(unidiff.Normalize(raw))
	summary := FormatSummary(Scan(raw, files, hunks))

	require.Equal(t, "2 files, 2 hunks (+2/-2), 1 no-newline", summary)
}

func TestFormatSummarySingular(t *testing.T) {
	t.Parallel()

	raw := "diff --git a/t b/t\n@@ -1 +1 @@\n-a\n+b\n"
	files, hunks := unidiff.Parse(raw)
	summary := FormatSummary(Scan(raw, files, hunks))

	require.Equal(t, "1 file, 1 hunk (+1/-1)", summary)
}

func TestSummaryLines(t *testing.T) {
	t.Parallel()

	raw := samplePatch()
	files, hunks := unidiff.Parse(unidiff.Normalize(raw))
	lines := Scan(raw, files, hunks).SummaryLines()

	require.Contains(t, lines, "Files: 2 files with hunks, 1 without")
	require.Contains(t, lines, "Hunks: 2 (+2/-2, 2 context)")
	require.Contains(t, lines, "No-newline markers: 1")
	require.Contains(t, lines, "Lenient hunk markers: 1")
}

func TestSummaryLinesMentionQuirks(t *testing.T) {
	t.Parallel()

	raw := "@@ -1 +1 @@\r\n-\ta\r\n+b\r\n"
	files, hunks := unidiff.Parse(unidiff.Normalize(raw))
	lines := Scan(raw, files, hunks).SummaryLines()

	require.Contains(t, lines, "Input quirks: CRLF line endings, tab indentation (normalized)")
}
