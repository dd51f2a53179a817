package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/options"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stacklayout"

	// redisPasswordEnv holds the Redis password so it stays off the command line.
	redisPasswordEnv = "STACKLAYOUT_REDIS_PASSWORD"

	// redisPrefix namespaces keys in a shared Redis database.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	build := buildinfo.Get()
	root := &cobra.Command{
		Use:   appName,
		Short: "Stacklayout orders layered graphs by model order",
		Long: `Stacklayout configures layered graphs with layout options and orders
the nodes of every layer, preferring the order in which nodes and edges
were declared where the edges allow it.`,
		Version:      build.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(build.Template())

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.configureCommand())
	root.AddCommand(c.optionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backing a runner.
type cacheFlags struct {
	noCache bool
	redis   string
	redisDB int
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redis, "redis", "", "cache in Redis at this address instead of the local cache directory")
	cmd.Flags().IntVar(&f.redisDB, "redis-db", 0, "Redis database number")
}

// newRunner creates a pipeline runner for CLI use. A custom catalog
// replaces the built-in option registry and gets its own cache scope.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags, catalog string) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	if catalog != "" {
		reg, err := options.LoadCatalogFile(catalog)
		if err != nil {
			_ = cc.Close()
			return nil, fmt.Errorf("load catalog %s: %w", catalog, err)
		}
		runner.Registry = reg
		runner.Keyer = cache.NewScopedKeyer(nil, cache.CatalogScope(cache.HashJSON(reg.Options())))
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redis != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     f.redis,
			Password: os.Getenv(redisPasswordEnv),
			DB:       f.redisDB,
			Prefix:   redisPrefix,
		})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stacklayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
