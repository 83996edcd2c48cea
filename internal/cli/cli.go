package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/config"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartcore"
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
	root := &cobra.Command{
		Use:          appName,
		Short:        "Chartcore computes render-ready chart snapshots",
		Long:         `Chartcore turns a declarative chart spec and a dataset into a snapshot of series, scaled axes, layout, stacking and focus state that any renderer can draw.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.computeCommand())
	root.AddCommand(c.focusCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chartcore/).
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

// =============================================================================
// Input Helpers
// =============================================================================

// inputOpts are the flags shared by commands that read a spec and a dataset.
type inputOpts struct {
	width  float64
	height float64
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", 0, "override the spec's canvas width")
	cmd.Flags().Float64Var(&o.height, "height", 0, "override the spec's canvas height")
}

// load reads the spec and the optional dataset and applies flag overrides.
func (o *inputOpts) load(specPath, dataPath string) (*config.Spec, any, error) {
	spec, err := config.Load(specPath)
	if err != nil {
		return nil, nil, err
	}
	if o.width > 0 {
		spec.Width = o.width
	}
	if o.height > 0 {
		spec.Height = o.height
	}
	var data any
	if dataPath != "" {
		if data, err = config.LoadData(dataPath); err != nil {
			return nil, nil, err
		}
	}
	return spec, data, nil
}

// dataArg returns the optional second positional argument.
func dataArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}
