package csf

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/wasmbook/wasmbook/internal/fsutil"
)

// DefaultGlobal is the JS global object name the generated stories call into.
const DefaultGlobal = "wasmbook"

// Config holds the stories-file generator settings.
type Config struct {
	// OutDir is the directory the .stories.js files land in.
	OutDir string `hcl:"out_dir,optional"`

	// TitlePrefix is prepended to every story title ("Components" yields
	// "Components/Button"). Empty means bare story names.
	TitlePrefix string `hcl:"title_prefix,optional"`

	// Global is the name of the JS global object carrying the wasm API.
	Global string `hcl:"global,optional"`

	// Import, when set, is emitted as a side-effect import at the top of
	// every generated file, for hosts that load the wasm module that way.
	Import string `hcl:"import,optional"`

	// Stories holds per-story overrides keyed by story name.
	Stories []*StoryConfig `hcl:"story,block"`
}

// StoryConfig overrides generator settings for a single story. Its name must
// match a catalog entry; unknown names fail generation.
type StoryConfig struct {
	Name  string `hcl:"name,label"`
	Title string `hcl:"title,optional"`
}

// DefaultConfig returns the generator settings used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		OutDir:      "stories",
		TitlePrefix: "Components",
		Global:      DefaultGlobal,
	}
}

// LoadConfig reads generator settings from an HCL file, or from every .hcl
// file under a directory. Later files override earlier scalar settings;
// story blocks accumulate. Unset settings fall back to DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		if files, err = fsutil.FindByExt(path, ".hcl"); err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl files under '%s'", path)
		}
	}

	cfg := DefaultConfig()
	parser := hclparse.NewParser()
	seen := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, diags)
		}

		var part Config
		diags = gohcl.DecodeBody(hclFile.Body, nil, &part)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode config file %s: %w", file, diags)
		}

		if part.OutDir != "" {
			cfg.OutDir = part.OutDir
		}
		if part.TitlePrefix != "" {
			cfg.TitlePrefix = part.TitlePrefix
		}
		if part.Global != "" {
			cfg.Global = part.Global
		}
		if part.Import != "" {
			cfg.Import = part.Import
		}
		for _, sc := range part.Stories {
			if prev, dup := seen[sc.Name]; dup {
				return nil, fmt.Errorf("duplicate story block '%s' in %s (already defined in %s)", sc.Name, file, prev)
			}
			seen[sc.Name] = file
			cfg.Stories = append(cfg.Stories, sc)
		}
	}

	return cfg, nil
}

// titleFor resolves the viewer title for a story name: a per-story override
// wins, then the prefix convention.
func (c *Config) titleFor(name string) string {
	for _, sc := range c.Stories {
		if sc.Name == name && sc.Title != "" {
			return sc.Title
		}
	}
	if c.TitlePrefix == "" {
		return name
	}
	return c.TitlePrefix + "/" + name
}
