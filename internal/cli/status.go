package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/config"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

func newSourcesCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List project sources and how many projects each has",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			catalog, err := a.Sources(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, catalog)
			}

			names := make([]string, 0, len(catalog.Sources))
			for name := range catalog.Sources {
				names = append(names, name)
			}
			sort.Strings(names)

			t := newTable("Source", "Projects", "Description")
			for _, name := range names {
				info := catalog.Sources[name]
				t.Row(core.Source(name).DisplayName(), strconv.Itoa(info.Count), info.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHealthCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			status, err := a.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend %s unreachable: %w", a.Config().APIBaseURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.Config().APIBaseURL, status.Status)
			return nil
		},
	}
}

func newConfigCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), e.path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(e.configPath)
				if err != nil {
					return err
				}
				if cfg.Supabase.AnonKey != "" {
					cfg.Supabase.AnonKey = "********"
				}
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			},
		},
		newConfigInitCommand(e),
	)
	return cmd
}

func newConfigInitCommand(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func (e *env) path() string {
	if e.configPath != "" {
		return e.configPath
	}
	return config.DefaultPath()
}
