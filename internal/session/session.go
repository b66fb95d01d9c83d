// Package session owns the mutable selection state for one run: the parsed
// model, the cursor over the presentation order, the marks, and persistence
// of the filtered patch.
package session

import (
	"fmt"
	"os"

	"github.com/patchpick/patchpick/internal/logging"
	"github.com/patchpick/patchpick/pkg/unidiff"
)

// Options configures a Session.
type Options struct {
	// OutputPath receives the filtered patch on every toggle.
	OutputPath string
	// Logger records persistence activity. Nil means no logging.
	Logger logging.Logger
	// Store persists marks and cursor between runs. Nil disables resume.
	Store *Store
}

// Session tracks cursor and marks over a parsed model and rewrites the
// output patch whenever a mark changes. All methods run on one goroutine;
// the model is never shared across threads.
type Session struct {
	files  []unidiff.FileSection
	hunks  []unidiff.Hunk
	order  []int
	cursor int

	outputPath string
	store      *Store
	logger     logging.Logger
}

// New builds a session over a parsed model. The presentation order is the
// parse order of the hunks.
func New(files []unidiff.FileSection, hunks []unidiff.Hunk, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	order := make([]int, len(hunks))
	for i := range order {
		order[i] = i
	}
	return &Session{
		files:      files,
		hunks:      hunks,
		order:      order,
		outputPath: opts.OutputPath,
		store:      opts.Store,
		logger:     logger,
	}
}

// Files exposes the parsed file sections for rendering. Callers must not
// mutate them.
func (s *Session) Files() []unidiff.FileSection { return s.files }

// Len returns the number of selectable hunks.
func (s *Session) Len() int { return len(s.order) }

// Cursor returns the current position in the presentation order.
func (s *Session) Cursor() int { return s.cursor }

// OutputPath returns where the filtered patch is written.
func (s *Session) OutputPath() string { return s.outputPath }

// HunkAt returns a copy of the hunk at the given presentation position.
func (s *Session) HunkAt(pos int) unidiff.Hunk {
	return s.hunks[s.order[pos]]
}

// LabelAt returns the owning file label for the hunk at the given position.
func (s *Session) LabelAt(pos int) string {
	return s.files[s.hunks[s.order[pos]].File].Label
}

// SelectedCount returns how many hunks are currently marked.
func (s *Session) SelectedCount() int {
	count := 0
	for _, hunk := range s.hunks {
		if hunk.Marked {
			count++
		}
	}
	return count
}

// Move shifts the cursor by delta, clamped to the valid range. It never
// wraps, and with no hunks the cursor stays at zero.
func (s *Session) Move(delta int) {
	if len(s.order) == 0 {
		s.cursor = 0
		return
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if last := len(s.order) - 1; s.cursor > last {
		s.cursor = last
	}
}

// ToggleCurrent flips the mark under the cursor and immediately rewrites the
// output patch. Toggle and persist form one logical operation: when the
// write fails the flip is kept, the error is returned for display, and the
// next successful save carries the accumulated marks.
func (s *Session) ToggleCurrent() error {
	if len(s.order) == 0 {
		return nil
	}
	id := s.order[s.cursor]
	s.hunks[id].Marked = !s.hunks[id].Marked
	return s.Save()
}

// SetMarks replaces the selection with the hunks at the given presentation
// positions. Positions are validated before anything changes.
func (s *Session) SetMarks(positions []int) error {
	for _, pos := range positions {
		if pos < 0 || pos >= len(s.order) {
			return fmt.Errorf("hunk %d is out of range 1-%d", pos+1, len(s.order))
		}
	}
	for i := range s.hunks {
		s.hunks[i].Marked = false
	}
	for _, pos := range positions {
		s.hunks[s.order[pos]].Marked = true
	}
	return nil
}

// Save rewrites the output patch from the current marks. The file is fully
// reconstructed on every call so it always matches the marks exactly. When a
// store is attached the sidecar is refreshed afterwards; sidecar failures
// are logged, not returned, since the patch itself was written.
func (s *Session) Save() error {
	text := unidiff.Write(s.files, s.hunks)
	if err := os.WriteFile(s.outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.outputPath, err)
	}
	s.logger.Debug("output written",
		logging.Field("path", s.outputPath),
		logging.Field("bytes", len(text)),
		logging.Field("selected", s.SelectedCount()),
	)
	s.checkpoint()
	return nil
}

// Checkpoint records the selection in the sidecar without touching the
// output patch. The interactive shell calls this on quit so the cursor
// position survives into the next run.
func (s *Session) Checkpoint() {
	s.checkpoint()
}

func (s *Session) checkpoint() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.markedIDs(), s.cursor); err != nil {
		s.logger.Warn("sidecar save failed", logging.Field("error", err))
	}
}

// Restore applies a previously saved selection. Mark entries that no longer
// fit the model are dropped; an out-of-range cursor is ignored.
func (s *Session) Restore(snap Snapshot) {
	for _, id := range snap.Marked {
		if id >= 0 && id < len(s.hunks) {
			s.hunks[id].Marked = true
		}
	}
	if snap.Cursor >= 0 && snap.Cursor < len(s.order) {
		s.cursor = snap.Cursor
	}
	s.logger.Info("session restored",
		logging.Field("selected", s.SelectedCount()),
		logging.Field("cursor", s.cursor),
	)
}

func (s *Session) markedIDs() []int {
	ids := make([]int, 0, len(s.hunks))
	for i, hunk := range s.hunks {
		if hunk.Marked {
			ids = append(ids, i)
		}
	}
	return ids
}
