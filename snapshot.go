package envmanager

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("envmanager: snapshot exceeds 100MB size limit")

	// ErrNilManager is returned when CreateSnapshot receives a nil manager.
	ErrNilManager = errors.New("envmanager: manager is nil")

	// ErrNilSnapshot is returned when WriteSnapshot receives a nil snapshot.
	ErrNilSnapshot = errors.New("envmanager: snapshot is nil")
)

// Snapshot is a point-in-time capture of a manager's staged variables.
type Snapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	// FilePath is the file the manager pointed at
	FilePath string `json:"file_path"`

	// Variables holds staged values with secrets redacted.
	Variables map[string]string `json:"variables"`

	// Provenance tracks the source of each variable.
	Provenance []VariableProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	excludeNames []string
}

// WithExcludeNames leaves the named variables out of the snapshot.
// Matching is case-insensitive.
func WithExcludeNames(names ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.excludeNames = append(cfg.excludeNames, names...)
	}
}

// CreateSnapshot captures the staged variables of m with secrets redacted.
func CreateSnapshot(m *EnvManager, opts ...SnapshotOption) (*Snapshot, error) {
	if m == nil {
		return nil, ErrNilManager
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}

	exclude := make(map[string]bool, len(snapCfg.excludeNames))
	for _, name := range snapCfg.excludeNames {
		exclude[strings.ToLower(name)] = true
	}

	vars := make(map[string]string)
	prov := make([]VariableProvenance, 0)
	for _, p := range m.Provenances() {
		if exclude[strings.ToLower(p.Name)] {
			continue
		}
		vars[p.Name] = flatValue(m, p)
		prov = append(prov, p)
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		Timestamp:  time.Now().UTC(),
		FilePath:   m.FilePath(),
		Variables:  vars,
		Provenance: prov,
	}, nil
}

// ExpandPath expands template variables using current time.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime replaces all {{timestamp}} occurrences with t formatted
// as 20060102-150405 (UTC).
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot as indented JSON with atomic write semantics.
// {{timestamp}} in pathTemplate expands to the snapshot's own Timestamp.
func WriteSnapshot(snapshot *Snapshot, pathTemplate string) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if len(data) > MaxSnapshotSize {
		return ErrSnapshotTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0700); mkdirErr != nil {
			return mkdirErr
		}
	}

	tempPath, err := generateTempFileName(targetPath)
	if err != nil {
		return err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return err
	}
	tempFileCreated = false

	return nil
}

// generateTempFileName returns targetPath + ".tmp." + 16 random hex chars,
// in the same directory so the rename stays on one filesystem.
func generateTempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}
