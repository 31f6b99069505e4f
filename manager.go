package envmanager

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// EnvManager loads, edits and saves one environment file.
//
// Variables are staged in memory without validation; Save writes only those
// with a valid key. Saves always target the root file given to New, even after
// SetFilePath or NewFromPath pointed the manager elsewhere.
// Not safe for concurrent use.
type EnvManager struct {
	environmentFilePath string
	filePath            string
	cipher              string

	variables map[string]string
	order     []string          // first-insertion order, decides trimmed-key collisions on Save
	sources   map[string]string // provenance per variable

	opts   options
	logger *zap.Logger
}

// New creates a manager rooted at environmentFilePath and loads its variables.
// A missing file yields an empty manager; an unparseable one returns a
// *FileError wrapping ErrUnableToRead.
func New(environmentFilePath, cipher string, opts ...Option) (*EnvManager, error) {
	o := options{
		logger:   zap.NewNop(),
		random:   rand.Reader,
		fileMode: 0644,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &EnvManager{
		environmentFilePath: environmentFilePath,
		cipher:              cipher,
		opts:                o,
		logger:              o.logger,
	}
	m.ResetFilePath()

	if err := m.loadVariables(); err != nil {
		return nil, err
	}
	return m, nil
}

// FilePath returns the file currently in scope.
func (m *EnvManager) FilePath() string {
	return m.filePath
}

// SetFilePath points the manager at path. No I/O is performed.
func (m *EnvManager) SetFilePath(path string) {
	m.filePath = path
}

// ResetFilePath points the manager back at the root file.
func (m *EnvManager) ResetFilePath() {
	m.filePath = m.environmentFilePath
}

// EnvironmentFilePath returns the root file that Save writes to.
func (m *EnvManager) EnvironmentFilePath() string {
	return m.environmentFilePath
}

// Cipher returns the cipher name used to size generated app keys.
func (m *EnvManager) Cipher() string {
	return m.cipher
}

// FileExists reports whether a regular file exists at FilePath.
func (m *EnvManager) FileExists() bool {
	info, err := os.Stat(m.filePath)
	return err == nil && info.Mode().IsRegular()
}

// Has reports whether name is staged, valid or not.
func (m *EnvManager) Has(name string) bool {
	_, ok := m.variables[name]
	return ok
}

// Get returns the value of name, or def when it is absent.
func (m *EnvManager) Get(name, def string) string {
	if v, ok := m.variables[name]; ok {
		return v
	}
	return def
}

// Lookup returns the value of name and whether it is present.
func (m *EnvManager) Lookup(name string) (string, bool) {
	v, ok := m.variables[name]
	return v, ok
}

// Set stages name=value. Names are not validated here; invalid ones are
// dropped by Save.
func (m *EnvManager) Set(name, value string) {
	m.put(name, value, SourceSet)
}

// SetMany calls Set for every entry, in sorted name order.
func (m *EnvManager) SetMany(data map[string]string) {
	m.putMany(data, SourceSet)
}

// Names returns the staged variable names, sorted.
func (m *EnvManager) Names() []string {
	return sortedKeys(m.variables)
}

// Variables returns a copy of the staged variables.
func (m *EnvManager) Variables() map[string]string {
	result := make(map[string]string, len(m.variables))
	for k, v := range m.variables {
		result[k] = v
	}
	return result
}

// Import stages every variable provided by src, as SetMany would, and records
// src.Name() as their provenance.
func (m *EnvManager) Import(ctx context.Context, src Source) error {
	data, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("import %s: %w", src.Name(), err)
	}

	m.putMany(data, src.Name())
	m.logger.Debug("imported variables", zap.String("source", src.Name()), zap.Int("count", len(data)))
	return nil
}

// Content renders what Save would write, without the trailing newline:
// keys and values trimmed, invalid keys dropped, values quoted, lines sorted.
func (m *EnvManager) Content() string {
	return strings.Join(m.lines(), "\n")
}

// lines returns one sorted KEY=value entry per valid variable. An entry holds
// more than one physical line when its quoted value contains a newline.
func (m *EnvManager) lines() []string {
	lines := make([]string, 0, len(m.variables))
	for _, v := range m.validVariables() {
		lines = append(lines, v.String())
	}
	sort.Strings(lines)
	return lines
}

// Save writes Content to the root file under an exclusive lock and resets
// FilePath to the root file.
//
// It returns a *FileError wrapping ErrNothingToSave when no valid variable is
// staged, or ErrUnableToWrite when the write fails.
func (m *EnvManager) Save() error {
	lines := m.lines()
	content := strings.Join(lines, "\n")
	if content == "" {
		return &FileError{Op: "save", Path: m.filePath, Err: ErrNothingToSave}
	}

	m.ResetFilePath()

	if err := writeLocked(m.filePath, []byte(content+"\n"), m.opts.fileMode); err != nil {
		return &FileError{Op: "write", Path: m.filePath, Err: ErrUnableToWrite, Cause: err}
	}

	m.logger.Info("saved environment file",
		zap.String("path", m.filePath),
		zap.Int("variables", len(lines)))
	return nil
}

// NewFromPath discards every staged variable, points the manager at path and
// loads it. An absent file leaves the manager empty. This is a reload, not a merge.
func (m *EnvManager) NewFromPath(path string) error {
	m.SetFilePath(path)
	return m.loadVariables()
}

// WithNewAppKey sets APP_KEY to "base64:" followed by a random key sized for
// the configured cipher.
func (m *EnvManager) WithNewAppKey() error {
	key, err := GenerateAppKey(m.opts.random, m.cipher)
	if err != nil {
		return err
	}

	m.put(AppKeyName, key, SourceGenerated)
	m.logger.Info("generated application key", zap.String("cipher", m.cipher), zap.Int("bytes", KeySize(m.cipher)))
	return nil
}

// validVariables applies the save-time pipeline: trim, drop invalid keys,
// quote values. When trimmed keys collide, the name inserted later wins.
func (m *EnvManager) validVariables() []Variable {
	byKey := make(map[string]Variable, len(m.variables))
	var keys []string
	for _, name := range m.order {
		v, err := NewVariable(name, m.variables[name])
		if err != nil {
			m.logger.Debug("dropping variable with invalid key", zap.String("name", name))
			continue
		}
		if _, seen := byKey[v.Key()]; !seen {
			keys = append(keys, v.Key())
		}
		byKey[v.Key()] = v
	}

	result := make([]Variable, 0, len(keys))
	for _, k := range keys {
		result = append(result, byKey[k])
	}
	return result
}

func (m *EnvManager) loadVariables() error {
	vars := make(map[string]string)
	var order []string

	if m.FileExists() {
		parsed, parsedOrder, err := parseFile(m.filePath)
		if err != nil {
			return &FileError{Op: "read", Path: m.filePath, Err: ErrUnableToRead, Cause: err}
		}
		vars, order = parsed, parsedOrder
	}

	m.variables = vars
	m.order = order
	m.sources = make(map[string]string, len(vars))
	for name := range vars {
		m.record(name, "file:"+m.filePath)
	}

	m.logger.Debug("loaded environment file", zap.String("path", m.filePath), zap.Int("count", len(vars)))
	return nil
}

func (m *EnvManager) put(name, value, source string) {
	if _, ok := m.variables[name]; !ok {
		m.order = append(m.order, name)
	}
	m.variables[name] = value
	m.record(name, source)
}

func (m *EnvManager) putMany(data map[string]string, source string) {
	for _, name := range sortedKeys(data) {
		m.put(name, data[name], source)
	}
}
