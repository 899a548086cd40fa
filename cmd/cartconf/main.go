package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pevogam/cartconf/internal/config"
	"github.com/pevogam/cartconf/internal/logging"
	"github.com/pevogam/cartconf/pkgs/ast"
	"github.com/pevogam/cartconf/pkgs/fileloader"
	"github.com/pevogam/cartconf/pkgs/parser"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// Exit code constants matching the rest of the toolchain's convention.
const (
	ExitSuccess      = 0
	ExitInvalidUsage = 1
	ExitParseError   = 2
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "cartconf",
		Short: "Expand a cartconf source file into its stream of variant dictionaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional YAML file of default options")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Path to the cartconf source file")
	rootCmd.PersistentFlags().StringSlice("only", nil, "Restrict enumeration to variants matching FILTER (repeatable)")
	rootCmd.PersistentFlags().StringSlice("no", nil, "Exclude variants matching FILTER (repeatable)")
	rootCmd.PersistentFlags().Bool("defaults", false, "Stop each axis after its first matching default variant")
	rootCmd.PersistentFlags().StringSlice("expand-default", nil, "Axes exempted from default short-circuiting (repeatable)")
	rootCmd.PersistentFlags().Bool("skipdups", false, "Collapse suffixed keys back to a bare key when every variant agrees")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		logging.LogError(logging.Setup(false), "cartconf failed", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitParseError)
	}
}

func run(opts config.Options) error {
	logger := logging.Setup(opts.Debug)

	if opts.File == "" {
		return oops.Code("MISSING_FILE").Errorf("no source file given (use --file)")
	}

	p := parser.New(fileloader.New(), opts.Defaults, opts.ExpandDefaults, opts.Debug)
	if err := p.ParseFile(opts.File); err != nil {
		logging.LogError(logger, "parse failed", err)
		return oops.Code("PARSE_FAILED").With("file", opts.File).Wrap(err)
	}
	for _, f := range opts.Only {
		if err := p.OnlyFilter(f); err != nil {
			return oops.Code("ONLY_FILTER_FAILED").With("filter", f).Wrap(err)
		}
	}
	for _, f := range opts.No {
		if err := p.NoFilter(f); err != nil {
			return oops.Code("NO_FILTER_FAILED").With("filter", f).Wrap(err)
		}
	}

	count := 0
	for d := range p.GetDicts(opts.SkipDups) {
		fmt.Println(renderDict(d))
		count++
	}
	logger.Debug("enumeration complete", "variants", count)
	return nil
}

// renderDict renders a dictionary as one line of space-separated
// key=value pairs for a deterministic diff-friendly output: name first,
// then shortname and dep when non-empty, then every non-reserved key in
// sorted order. The two file-map keys are not printed.
func renderDict(d ast.Dict) string {
	var parts []string
	if name, ok := d.GetString(ast.KeyName); ok {
		parts = append(parts, "name="+name)
	}
	if short, ok := d.GetString(ast.KeyShortname); ok && short != "" {
		parts = append(parts, "shortname="+short)
	}
	if dep, ok := d[ast.Key{Base: ast.KeyDep}].([]string); ok && len(dep) > 0 {
		parts = append(parts, "dep="+strings.Join(dep, ","))
	}

	var bases []string
	for k := range d {
		if ast.IsReserved(k.Base) {
			continue
		}
		bases = append(bases, renderKey(k, d[k]))
	}
	sort.Strings(bases)
	parts = append(parts, bases...)
	return strings.Join(parts, " ")
}

func renderKey(k ast.Key, v any) string {
	name := k.Base
	for _, s := range k.Suffixes {
		name += s
	}
	s, _ := v.(string)
	return name + "=" + s
}
