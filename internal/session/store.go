package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Snapshot is the persisted form of a selection.
type Snapshot struct {
	Version   int    `json:"version"`
	InputHash string `json:"input_sha256"`
	Marked    []int  `json:"marked"`
	Cursor    int    `json:"cursor"`
}

const snapshotVersion = 1

// snapshotSchema validates sidecar files before they are trusted. Hand
// edited or truncated sidecars fail here instead of corrupting a session.
const snapshotSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["version", "input_sha256", "marked", "cursor"],
	"additionalProperties": false,
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"input_sha256": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
		"marked": {"type": "array", "items": {"type": "integer", "minimum": 0}},
		"cursor": {"type": "integer", "minimum": 0}
	}
}`

var (
	snapshotSchemaLoader     gojsonschema.JSONLoader
	snapshotSchemaLoaderOnce sync.Once
)

// ErrStale reports a sidecar that belongs to a different input than the one
// currently loaded.
var ErrStale = errors.New("sidecar does not match current input")

type snapshotValidationError struct {
	issues []string
}

func (e snapshotValidationError) Error() string {
	if len(e.issues) == 0 {
		return "sidecar failed schema validation"
	}
	return "sidecar failed schema validation: " + strings.Join(e.issues, "; ")
}

// Store reads and writes the resume sidecar that lives next to the output
// patch. It is bound to one input text via its hash, so selections never
// leak across different patches sharing an output path.
type Store struct {
	path      string
	inputHash string
}

// NewStore derives the sidecar path from the output path and binds the
// store to the normalized input text it describes.
func NewStore(outputPath, normalizedInput string) *Store {
	sum := sha256.Sum256([]byte(normalizedInput))
	return &Store{
		path:      outputPath + ".patchpick.json",
		inputHash: hex.EncodeToString(sum[:]),
	}
}

// Path returns the sidecar location.
func (st *Store) Path() string { return st.path }

// Save writes the snapshot for the bound input.
func (st *Store) Save(marked []int, cursor int) error {
	if marked == nil {
		marked = []int{}
	}
	snap := Snapshot{
		Version:   snapshotVersion,
		InputHash: st.inputHash,
		Marked:    marked,
		Cursor:    cursor,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(st.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Load reads and validates the sidecar. A missing sidecar returns ok=false
// with a nil error; any other failure also returns ok=false and the reason,
// which callers log and otherwise ignore since resume is best-effort.
func (st *Store) Load() (Snapshot, bool, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read sidecar: %w", err)
	}

	if err := validateSnapshot(string(data)); err != nil {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode sidecar: %w", err)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, false, fmt.Errorf("unsupported sidecar version %d", snap.Version)
	}
	if snap.InputHash != st.inputHash {
		return Snapshot{}, false, ErrStale
	}
	return snap, true, nil
}

func validateSnapshot(raw string) error {
	loader := loadSnapshotSchema()
	result, err := gojsonschema.Validate(loader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("sidecar schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return snapshotValidationError{issues: issues}
}

func loadSnapshotSchema() gojsonschema.JSONLoader {
	snapshotSchemaLoaderOnce.Do(func() {
		snapshotSchemaLoader = gojsonschema.NewStringLoader(snapshotSchema)
	})
	return snapshotSchemaLoader
}
