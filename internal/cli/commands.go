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

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/codegen"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/model"
	"dirpx.dev/modelreg/registry"
)

func (a *app) summaryCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the registered models and their customized surfaces",
		Long: `Print every registered model with its display name, slug, registration
site and per-surface override/custom flags.

Examples:
  modelreg summary
  modelreg summary --format json | jq '.entities[].slug'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.load()
			if err != nil {
				return err
			}
			var out []byte
			switch format {
			case "yaml":
				out, err = reg.Summarize().YAML()
			case "json":
				out, err = reg.Summarize().JSON()
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the field lists of every model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.check(cmd)
		},
	}
}

// check loads and validates every model, reporting each problem on its
// own line.
func (a *app) check(cmd *cobra.Command) error {
	reg, err := a.load()
	if err != nil {
		return err
	}
	if err := reg.Check(); err != nil {
		for _, e := range flatten(err) {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return fmt.Errorf("%d problem(s) found", len(flatten(err)))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d model(s)\n", reg.Count())
	return nil
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <model> <surface>",
		Short: "Print the resolved field list of one surface",
		Long: `Print which precedence tier produced the field list of a surface and the
fields in order. Groups are printed in brackets.

Examples:
  modelreg resolve blog.Post form
  modelreg resolve blog.post admin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load()
			if err != nil {
				return err
			}
			c, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			s, err := apis.ParseSurface(args[1])
			if err != nil {
				return err
			}
			res, err := c.Fields(s)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s (%s)\n", c.Identity(), s, res.Tier)
			for _, f := range res.Fields {
				fmt.Fprintf(w, "  %s\t%s\n", f.Path, f.Info.Kind)
			}
			for _, g := range res.Groups {
				fmt.Fprintf(w, "  [%s]\n", strings.Join(g, ", "))
			}
			return nil
		},
	}
}

func (a *app) sdlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sdl [model]",
		Short: "Print GraphQL object types of the serializers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load()
			if err != nil {
				return err
			}
			sers, err := serializers(reg, args)
			if err != nil {
				return err
			}
			for i, s := range sers {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), s.SDL())
			}
			return nil
		},
	}
}

func (a *app) genCmd() *cobra.Command {
	var pkg string
	cmd := &cobra.Command{
		Use:   "gen [model]",
		Short: "Generate Go structs from the serializers",
		Long: `Generate one Go struct per serializer, with json and msgpack tags.

Examples:
  modelreg gen --package dto > dto/models_gen.go
  modelreg gen blog.Post --package blogdto`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load()
			if err != nil {
				return err
			}
			sers, err := serializers(reg, args)
			if err != nil {
				return err
			}
			return codegen.Render(cmd.OutOrStdout(), pkg, sers...)
		},
	}
	cmd.Flags().StringVarP(&pkg, "package", "p", "models", "package name of the generated file")
	return cmd
}

// serializers returns the serializer of the named model, or of every model.
func serializers(reg *registry.Registry, args []string) ([]*factory.Serializer, error) {
	var cfgs []*model.Configuration
	if len(args) == 1 {
		c, err := reg.Lookup(args[0])
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, c)
	} else {
		cfgs = reg.All()
	}
	out := make([]*factory.Serializer, 0, len(cfgs))
	var errs []error
	for _, c := range cfgs {
		s, err := c.Serializer()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	return out, apis.NewAggregateError(errs...)
}

// flatten expands an AggregateError into its parts.
func flatten(err error) []error {
	if agg, ok := err.(*apis.AggregateError); ok {
		return agg.Errors
	}
	return []error{err}
}
