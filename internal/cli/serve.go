package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/internal/server"
	"github.com/matzehuels/jyotish/pkg/jobs"
	"github.com/matzehuels/jyotish/pkg/observability"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	backend  string
	jobStore string
	noCache  bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var so serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: `Serve the chart API over HTTP.

Routes:
  POST /api/v1/chart             full chart
  POST /api/v1/chart/{section}   divisional, dasha, yogas, strengths, panchanga
  POST /api/v1/chart/aspects     aspect graph image
  POST /api/v1/jobs              asynchronous chart computation
  GET  /api/v1/jobs/{id}         job status and result
  GET  /health, /metrics

Defaults come from the config file and JYOTISH_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if so.addr != "" {
				c.Config.Server.Addr = so.addr
			}
			if so.backend != "" {
				c.Config.Cache.Backend = so.backend
			}
			if so.jobStore != "" {
				c.Config.Server.JobStore = so.jobStore
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), so.noCache)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&so.backend, "cache", "", "cache backend: memory, file, redis, mongo, none")
	cmd.Flags().StringVar(&so.jobStore, "jobs", "", "job store: memory, redis")
	cmd.Flags().BoolVar(&so.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	metrics := observability.NewMetrics(nil)
	metrics.Install()

	store, err := c.newJobStore(ctx)
	if err != nil {
		return err
	}
	queue := jobs.NewQueue(store, c.Logger)
	defer queue.Close()

	srv := server.New(server.Config{Addr: c.Config.Server.Addr}, runner, queue, metrics, c.Logger)

	printInfo("Serving chart API on %s", StyleLink.Render(displayAddr(c.Config.Server.Addr)))
	printDetail("cache: %s, jobs: %s", c.Config.Cache.Backend, c.Config.Server.JobStore)
	printNextStep("Check health", "curl "+displayAddr(c.Config.Server.Addr)+"/health")

	return srv.ListenAndServe(ctx)
}

// newJobStore opens the configured job store.
func (c *CLI) newJobStore(ctx context.Context) (jobs.Store, error) {
	if c.Config.Server.JobStore != jobStoreRedis {
		return jobs.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.Config.Cache.RedisAddr,
		Password: c.Config.Cache.RedisPassword,
		DB:       c.Config.Cache.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect job store %s: %w", c.Config.Cache.RedisAddr, err)
	}
	return jobs.NewRedisStore(client, jobs.DefaultRedisTTL), nil
}

// displayAddr turns a listen address into a URL for humans.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
