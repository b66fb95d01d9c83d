package unidiff

import (
	"strings"
	"testing"
)

func twoFilePatch() string {
	return strings.Join([]string{
		"diff --git a/alpha.txt b/alpha.txt",
		"index 1111111..2222222 100644",
		"--- a/alpha.txt",
		"+++ b/alpha.txt",
		"@@ -1,3 +1,3 @@",
		" one",
		"-two",
		"+TWO",
		" three",
		"@@ -10,2 +10,3 @@ trailing note",
		" ten",
		"+eleven",
		" twelve",
		"diff --git a/beta.txt b/beta.txt",
		"index 3333333..4444444 100644",
		"--- a/beta.txt",
		"+++ b/beta.txt",
		"@@ -1 +1 @@",
		"-old",
		"+new",
	}, "\n") + "\n"
}

func TestParseTwoFilesProducesOrderedModel(t *testing.T) {
	t.Parallel()

	files, hunks := Parse(twoFilePatch())
	if got, want := len(files), 2; got != want {
		t.Fatalf("file count mismatch: got %d want %d", got, want)
	}
	if got, want := len(hunks), 3; got != want {
		t.Fatalf("hunk count mismatch: got %d want %d", got, want)
	}
	if got, want := len(files[0].Headers), 4; got != want {
		t.Fatalf("first file header count: got %d want %d", got, want)
	}
	if files[0].Headers[0] != "diff --git a/alpha.txt b/alpha.txt" {
		t.Fatalf("unexpected first header line: %q", files[0].Headers[0])
	}
	if got, want := len(files[0].Hunks), 2; got != want {
		t.Fatalf("first file hunk refs: got %d want %d", got, want)
	}
	if files[0].Hunks[0] != 0 || files[0].Hunks[1] != 1 || files[1].Hunks[0] != 2 {
		t.Fatalf("hunk refs out of order: %v / %v", files[0].Hunks, files[1].Hunks)
	}
	for i, hunk := range hunks {
		wantFile := 0
		if i == 2 {
			wantFile = 1
		}
		if hunk.File != wantFile {
			t.Fatalf("hunk %d owner mismatch: got %d want %d", i, hunk.File, wantFile)
		}
		if hunk.Marked {
			t.Fatalf("hunk %d should start unmarked", i)
		}
	}
	if got, want := hunks[1].Header, "@@ -10,2 +10,3 @@ trailing note"; got != want {
		t.Fatalf("header mismatch: got %q want %q", got, want)
	}
	if got, want := strings.Join(hunks[2].Body, "\n"), "-old\n+new"; got != want {
		t.Fatalf("body mismatch: got %q want %q", got, want)
	}
	if got, want := files[0].Label, "a/alpha.txt → b/alpha.txt"; got != want {
		t.Fatalf("label mismatch: got %q want %q", got, want)
	}
}

func TestParseAcceptsLenientMarkerSpellings(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"diff --git a/l.txt b/l.txt",
		"@@-1,2 +1,2 @@",
		"-a",
		"+b",
		"@@+5,1 +5,2 @@",
		" c",
		"+d",
	}, "\n") + "\n"

	_, hunks := Parse(text)
	if got, want := len(hunks), 2; got != want {
		t.Fatalf("hunk count mismatch: got %d want %d", got, want)
	}
	if hunks[0].Header != "@@-1,2 +1,2 @@" || hunks[1].Header != "@@+5,1 +5,2 @@" {
		t.Fatalf("marker lines not kept verbatim: %q / %q", hunks[0].Header, hunks[1].Header)
	}
}

func TestParseSynthesizesSectionForLeadingHunk(t *testing.T) {
	t.Parallel()

	text := "@@ -1,2 +1,2 @@\n-x\n+y\n"
	files, hunks := Parse(text)
	if len(files) != 1 || len(hunks) != 1 {
		t.Fatalf("expected one synthesized file with one hunk, got %d/%d", len(files), len(hunks))
	}
	if len(files[0].Headers) != 0 {
		t.Fatalf("synthesized section should have no headers, got %v", files[0].Headers)
	}
	if got, want := files[0].Label, "file"; got != want {
		t.Fatalf("fallback label mismatch: got %q want %q", got, want)
	}
	if hunks[0].File != 0 {
		t.Fatalf("hunk should belong to the synthesized section, got %d", hunks[0].File)
	}
}

func TestParseFoldsPreambleIntoSynthesizedSection(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"some note",
		"+++ b/thing",
		"@@ -1 +1 @@",
		"+z",
	}, "\n") + "\n"

	files, _ := Parse(text)
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	if got, want := len(files[0].Headers), 2; got != want {
		t.Fatalf("preamble lines lost: got %d want %d", got, want)
	}
	if got, want := files[0].Label, "? → b/thing"; got != want {
		t.Fatalf("label mismatch: got %q want %q", got, want)
	}
}

func TestParseKeepsEmptySectionBetweenFileMarkers(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"diff --git a/empty.txt b/empty.txt",
		"diff --git a/full.txt b/full.txt",
		"@@ -1 +1 @@",
		"-a",
		"+b",
	}, "\n") + "\n"

	files, hunks := Parse(text)
	if got, want := len(files), 2; got != want {
		t.Fatalf("file count mismatch: got %d want %d", got, want)
	}
	if len(files[0].Hunks) != 0 {
		t.Fatalf("hunkless file should keep empty refs, got %v", files[0].Hunks)
	}
	if len(files[1].Hunks) != 1 || hunks[0].File != 1 {
		t.Fatalf("second file should own the hunk: refs %v owner %d", files[1].Hunks, hunks[0].File)
	}
}

func TestParseClosesTrailingHunkAtEndOfInput(t *testing.T) {
	t.Parallel()

	text := "diff --git a/t.txt b/t.txt\n@@ -1 +1 @@\n-last"
	_, hunks := Parse(text)
	if len(hunks) != 1 {
		t.Fatalf("trailing hunk not captured, got %d hunks", len(hunks))
	}
	if got, want := strings.Join(hunks[0].Body, "\n"), "-last"; got != want {
		t.Fatalf("body mismatch: got %q want %q", got, want)
	}
}

func TestParseNonDiffTextYieldsEmptyModel(t *testing.T) {
	t.Parallel()

	files, hunks := Parse("just some prose\nsecond line\n")
	if len(files) != 0 || len(hunks) != 0 {
		t.Fatalf("expected empty model, got %d files %d hunks", len(files), len(hunks))
	}
}

func TestParseKeepsBlankAndMarkerBodyLines(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"diff --git a/g.txt b/g.txt",
		"@@ -1,3 +1,2 @@",
		" keep",
		"",
		"-old line",
		"\\ No newline at end of file",
	}, "\n") + "\n"

	_, hunks := Parse(text)
	want := []string{" keep", "", "-old line", "\\ No newline at end of file"}
	if got := strings.Join(hunks[0].Body, "\x00"); got != strings.Join(want, "\x00") {
		t.Fatalf("body not verbatim: got %q", hunks[0].Body)
	}
}

func TestMakePreview(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		body   []string
		want   string
	}{
		{
			name:   "first content line",
			header: "@@ -1,3 +1,3 @@",
			body:   []string{" one", "-two"},
			want:   "@@ -1,3 +1,3 @@  —  one",
		},
		{
			name:   "header trailing text kept",
			header: "@@ -10,2 +10,3 @@ trailing note",
			body:   []string{" ten"},
			want:   "@@ -10,2 +10,3 @@ trailing note  —  ten",
		},
		{
			name:   "empty body",
			header: "@@ -1 +1 @@",
			body:   nil,
			want:   "@@ -1 +1 @@",
		},
		{
			name:   "marker-only body",
			header: "@@ -1 +1 @@",
			body:   []string{"\\ No newline at end of file"},
			want:   "@@ -1 +1 @@",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := makePreview(tc.header, tc.body); got != tc.want {
				t.Fatalf("preview mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestFileLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		headers []string
		want    string
	}{
		{
			name:    "git tokens only",
			headers: []string{"diff --git a/x.go b/x.go"},
			want:    "a/x.go → b/x.go",
		},
		{
			name: "path markers override tokens",
			headers: []string{
				"diff --git a/x.go b/x.go",
				"--- a/renamed.go",
				"+++ b/other.go",
			},
			want: "a/renamed.go → b/other.go",
		},
		{
			name:    "missing new side",
			headers: []string{"--- a/only.go"},
			want:    "a/only.go → ?",
		},
		{
			name:    "short git line",
			headers: []string{"diff --git mangled"},
			want:    "file",
		},
		{
			name:    "no headers",
			headers: nil,
			want:    "file",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := fileLabel(tc.headers); got != tc.want {
				t.Fatalf("label mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}
