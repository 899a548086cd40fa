// Package config loads cartconf's run options from an optional YAML
// file, overlaid by whatever flags the invoking command line actually
// set -- koanf's usual file-then-flags layering.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Options mirrors the command's own flag set, plus whatever a config
// file supplied for flags the user never passed explicitly.
type Options struct {
	File           string   `koanf:"file"`
	Only           []string `koanf:"only"`
	No             []string `koanf:"no"`
	Defaults       bool     `koanf:"defaults"`
	ExpandDefaults []string `koanf:"expand-default"`
	SkipDups       bool     `koanf:"skipdups"`
	Debug          bool     `koanf:"debug"`
}

// Load reads configPath (if non-empty) as YAML into a koanf instance,
// then overlays flags, and unmarshals the merged result into Options.
// A configPath that does not exist is only an error if the user asked
// for one explicitly.
func Load(configPath string, flags *pflag.FlagSet) (Options, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Options{}, oops.Code("CONFIG_LOAD_FAILED").With("path", configPath).Wrap(err)
		}
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Options{}, oops.Code("CONFIG_FLAG_MERGE_FAILED").Wrap(err)
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return Options{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	return opts, nil
}
