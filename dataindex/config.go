package dataindex

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	// Driver is sqlite (default) or postgres.
	Driver string `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
	// DSN is the postgres connection string, or an explicit SQLite DSN.
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

type ImportConfig struct {
	// Node is the storage node the imported files live on. When set, each
	// registered file also gets a copy record on that node.
	Node          string   `yaml:"node"`
	QuarantineDir string   `yaml:"quarantine_dir"`
	Acquisitions  []string `yaml:"acquisitions"`
}

// SeedList accepts either a sequence of group names or a single
// comma-separated scalar:
//
//	seed: [types, storage]
//	seed: types,instruments
type SeedList []string

func (s *SeedList) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		*s = SplitSeedList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		*s = out
		return nil
	default:
		return ErrConfig.New("seed must be a list or a comma-separated string")
	}
}

// SplitSeedList splits a comma-separated list of seed groups.
func SplitSeedList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type FileConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Debug    bool           `yaml:"debug"`
	Seed     SeedList       `yaml:"seed"`
	Import   ImportConfig   `yaml:"import"`
}

func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, ErrConfig.Wrap(err)
	}
	return &cfg, nil
}
