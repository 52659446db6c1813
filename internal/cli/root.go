/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package cli implements the modelreg command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/builder"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/loader"
	"dirpx.dev/modelreg/registry"
)

// EnvPrefix prefixes environment variables read by the tool.
const EnvPrefix = "MODELREG"

// Settings are the tool settings after flags, environment and config file
// have been merged.
type Settings struct {
	Dir                string `mapstructure:"dir"`
	Files              string `mapstructure:"files"`
	LogLevel           string `mapstructure:"log_level"`
	RelationSeparator  string `mapstructure:"relation_separator"`
	MaxRelationDepth   int    `mapstructure:"max_relation_depth"`
	SuggestionDistance int    `mapstructure:"suggestion_distance"`
}

// app carries what every subcommand needs.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings Settings
	out      io.Writer
	errOut   io.Writer
}

// NewRootCmd builds the command tree. out and errOut receive command
// output and logs.
func NewRootCmd(version string, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:     "modelreg",
		Short:   "Inspect model registrations declared in YAML",
		Long:    `Load entity and model declarations from YAML files, validate them and render the generated components.`,
		Version: version,
	}
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return a.initConfig()
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./.modelreg.yaml if present)")
	pf.StringP("dir", "d", ".", "directory the declaration files live in")
	pf.StringP("files", "f", "*.yaml", "glob of declaration files, relative to --dir")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("relation-separator", config.DefaultRelationSeparator, "separator of relation path segments")
	pf.Int("max-relation-depth", config.DefaultMaxRelationDepth, "maximum number of relation hops in a field path")
	pf.Int("suggestion-distance", config.DefaultSuggestionDistance, "maximum edit distance of suggestions (0 = automatic)")

	for _, name := range []string{"dir", "files", "log-level", "relation-separator", "max-relation-depth", "suggestion-distance"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name))
	}

	root.AddCommand(
		a.summaryCmd(),
		a.checkCmd(),
		a.resolveCmd(),
		a.sdlCmd(),
		a.genCmd(),
		a.watchCmd(),
	)
	return root
}

// Execute runs the tool with os.Args until ctx is done.
func Execute(ctx context.Context, version string) error {
	root := NewRootCmd(version, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) initConfig() error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(".modelreg")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || a.cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := a.v.Unmarshal(&a.settings); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

func (a *app) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.settings.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
}

func (a *app) libConfig() apis.Config {
	return config.NewConfig(
		config.WithRelationSeparator(a.settings.RelationSeparator),
		config.WithMaxRelationDepth(a.settings.MaxRelationDepth),
		config.WithSuggestionDistance(a.settings.SuggestionDistance),
		config.WithLogger(a.logger()),
	)
}

// load reads the declaration files and registers every model.
func (a *app) load() (*registry.Registry, error) {
	b, err := loader.LoadFS(os.DirFS(a.settings.Dir), a.settings.Files)
	if err != nil {
		return nil, err
	}
	cfg := a.libConfig()
	bld := builder.New()
	reg := registry.New(cfg, b.Universe,
		bld.BuildResolver(cfg, b.Universe, nil, nil),
		bld.BuildFactories(cfg, nil, nil))
	if err := b.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
