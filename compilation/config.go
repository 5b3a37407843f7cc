package compilation

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// configFile mirrors the on-disk schema for a project's `svcore.toml`: the
// subset of compile-time choices worth persisting across runs. It is a
// local-module file naming toggles, not a central registry.
type configFile struct {
	MinTypMax              string   `toml:"min_typ_max"`
	AllowHierarchicalConst bool     `toml:"allow_hierarchical_const"`
	MaxRecursionDepth      int      `toml:"max_recursion_depth"`
	ScriptEval             bool     `toml:"script_eval"`
	TopModules             []string `toml:"top_modules"`
}

// LoadOptions reads a TOML config file at path and overlays it onto
// DefaultOptions. A missing file is not an error (a project with no config
// file just gets defaults); a malformed one is. Options the file does not
// set keep their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("compilation: reading config %s: %w", path, err)
	}

	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return opts, fmt.Errorf("compilation: parsing config %s: %w", path, err)
	}

	if cfg.MinTypMax != "" {
		if cfg.MinTypMax != "min" && cfg.MinTypMax != "typ" && cfg.MinTypMax != "max" {
			return opts, fmt.Errorf("compilation: invalid min_typ_max %q: must be min, typ, or max", cfg.MinTypMax)
		}
		opts.MinTypMax = cfg.MinTypMax
	}
	opts.AllowHierarchicalConst = cfg.AllowHierarchicalConst
	if cfg.MaxRecursionDepth > 0 {
		opts.MaxRecursionDepth = cfg.MaxRecursionDepth
	}
	opts.ScriptEval = cfg.ScriptEval
	if len(cfg.TopModules) > 0 {
		opts.TopModules = cfg.TopModules
	}

	return opts, nil
}
