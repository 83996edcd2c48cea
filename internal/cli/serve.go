package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/internal/server"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

const defaultAddr = ":8080"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string // shared Redis cache; empty uses the file cache
	redisPassword string
	redisDB       int
	noCache       bool
	keyPrefix     string // namespaces snapshot keys, e.g. per tenant
	maxBatch      int
	concurrency   int
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snapshot computation over HTTP",
		Long: `Serve starts an HTTP server that computes chart snapshots:

  GET  /healthz
  POST /v1/snapshots        {"spec": {...}, "data": [...], "pointer": {...}}
  POST /v1/snapshots/batch  {"items": [...]}

Snapshots are cached in Redis when --redis is set, otherwise on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address (host:port) for a shared snapshot cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", "", "prefix for snapshot cache keys")
	cmd.Flags().IntVar(&opts.maxBatch, "max-batch", server.DefaultMaxBatch, "maximum items per batch request")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", pipeline.DefaultConcurrency, "concurrent runs per batch request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cc, backend, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
		backend += " (keys " + opts.keyPrefix + "*)"
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	defer runner.Close()

	observability.Register(observability.NewLogHooks(c.Logger))
	defer observability.Reset()

	printSuccess("Serving on %s", opts.addr)
	printKeyValue("cache", backend)
	printKeyValue("max batch", strconv.Itoa(opts.maxBatch))

	srv := server.New(runner, server.Options{
		MaxBatch:    opts.maxBatch,
		Concurrency: opts.concurrency,
		Logger:      c.Logger,
	})
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache picks the cache backend for the server and describes it.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, string, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redisAddr != "":
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(dialCtx, cache.RedisOptions{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, "", err
		}
		return rc, "redis " + opts.redisAddr, nil
	}
	fc, err := newCache(false)
	if err != nil {
		return nil, "", err
	}
	if f, ok := fc.(*cache.FileCache); ok {
		return fc, "file " + f.Dir(), nil
	}
	return fc, "disabled", nil
}
