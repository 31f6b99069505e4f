package sourcefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/envmanager"
	"github.com/Azhovan/envmanager/internal/normalize"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", "toml" or "dotenv". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool

	// Prefix is prepended to every variable name (e.g., "APP" turns port into APP_PORT).
	Prefix string
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based variable source.
func New(path string, opts Options) envmanager.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning variables keyed by env name.
// Nested keys are joined with "__" and upper-cased: database.host → DATABASE__HOST.
func (f *fileSource) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required file not found: %s: %w", f.path, err)
			}
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
	case "dotenv", "env":
		vars, err := godotenv.UnmarshalBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse dotenv file %s: %w", f.path, err)
		}
		result := make(map[string]string, len(vars))
		for k, v := range vars {
			result[normalize.ApplyPrefix(f.opts.Prefix, k)] = v
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml, dotenv)", format)
	}

	result := make(map[string]string)
	flattenMap("", raw, result)

	if f.opts.Prefix != "" {
		prefixed := make(map[string]string, len(result))
		for k, v := range result {
			prefixed[normalize.ApplyPrefix(f.opts.Prefix, k)] = v
		}
		result = prefixed
	}

	return result, nil
}

// flattenMap recursively flattens nested maps to env names joined with "__".
func flattenMap(prefix string, value any, result map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flattenMap(joinKey(prefix, normalize.ToEnvKey(key)), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flattenMap(joinKey(prefix, normalize.ToEnvKey(keyStr)), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = stringify(value)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "__" + key
}

// stringify renders a scalar as an env value. Lists are joined with ",".
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprint(v)
	}
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return "dotenv"
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".env":
		return "dotenv"
	default:
		return ""
	}
}
