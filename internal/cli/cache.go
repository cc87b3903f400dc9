package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var settingsFile string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}
	cmd.PersistentFlags().StringVar(&settingsFile, "config", config.DefaultSettingsFile, "build settings file")

	cmd.AddCommand(c.cacheClearCommand(&settingsFile))
	cmd.AddCommand(c.cachePathCommand(&settingsFile))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached figure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd.Context(), *settingsFile)
		},
	}
}

func runCacheClear(ctx context.Context, settingsFile string) error {
	s, err := loadSettings(settingsFile)
	if err != nil {
		return err
	}
	if s.Cache.Backend == config.BackendNone {
		printInfo("Cache is disabled")
		return nil
	}
	store, err := openCache(ctx, s.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared the %s cache", s.Cache.Backend)
	printDetail("%s", cacheLocation(s.Cache))
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(*settingsFile)
			if err != nil {
				return err
			}
			if s.Cache.Backend == config.BackendFile {
				fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(s.Cache))
				return nil
			}
			printKeyValue("backend", s.Cache.Backend)
			printKeyValue("location", cacheLocation(s.Cache))
			return nil
		},
	}
}

// cacheLocation describes where a backend stores entries.
func cacheLocation(s config.CacheSettings) string {
	switch s.Backend {
	case config.BackendRedis:
		return "redis://" + s.RedisAddr + "/" + cache.DefaultRedisPrefix + "*"
	case config.BackendNone:
		return "(disabled)"
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		printWarning("cannot locate cache directory: %v", err)
		return ""
	}
	return dir
}
