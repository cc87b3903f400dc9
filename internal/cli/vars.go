package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/figures"
)

// varsCommand creates the vars command.
func (c *CLI) varsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Print the documentation variables",
		Long: `Print the documentation variables.

The variables file is loaded and printed back as YAML, so malformed entries
show up before a build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			load := figures.Vars
			if cmd.Flags().Changed("file") {
				load = func() (map[string]any, error) { return config.LoadVars(file) }
			}
			vars, err := load()
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded variables", "file", file, "keys", len(vars))
			out, err := yaml.Marshal(vars)
			if err != nil {
				return fmt.Errorf("encode variables: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", config.DefaultVarsFile, "variables file")
	return cmd
}
