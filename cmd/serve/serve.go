// Package serve runs the HTTP breakdown service
package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"fjacquet/budget-rollup/cmd/common"
	"fjacquet/budget-rollup/cmd/root"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/server"
	"fjacquet/budget-rollup/internal/store"

	"github.com/spf13/cobra"
)

var (
	address  string
	schedule string
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve breakdowns over HTTP",
	Long: `Serve the expense and income breakdowns over HTTP:

  GET  /healthz
  GET  /api/v1/breakdown/{ch|vn}?q=...&format=json|table|csv|xlsx
  GET  /api/v1/codes/{code}
  POST /api/v1/reload

The line item and classification files are re-read on POST /reload and on
the cron schedule given by --refresh or server.refresh_schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		cfg := c.GetConfig()
		if cmd.Flags().Changed("address") {
			cfg.Server.Address = address
		}
		if cmd.Flags().Changed("refresh") {
			cfg.Server.RefreshSchedule = schedule
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return Serve(ctx, c, root.SharedFlags.Input)
	},
}

func init() {
	Cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides server.address)")
	Cmd.Flags().StringVar(&schedule, "refresh", "", "Cron schedule for reloading inputs, e.g. \"@every 10m\"")
}

// NewServer builds a server whose loader re-reads input through the container.
func NewServer(c *container.Container, input string) *server.Server {
	loader := func(ctx context.Context) (server.Data, error) {
		if err := ctx.Err(); err != nil {
			return server.Data{}, err
		}
		in, err := common.LoadInputs(c, input)
		if err != nil {
			return server.Data{}, err
		}
		return server.Data{Items: in.Items, Names: in.Names}, nil
	}
	return server.New(c.NewDashboard(store.NewNames(), "", ""), c.GetGenerator(), loader, c.GetLogger())
}

// Serve loads the inputs once, starts the reload schedule and serves until
// ctx is cancelled.
func Serve(ctx context.Context, c *container.Container, input string) error {
	s := NewServer(c, input)
	if err := s.Reload(ctx); err != nil {
		return err
	}
	if err := s.StartScheduler(c.GetConfig().Server.RefreshSchedule); err != nil {
		return err
	}
	defer s.StopScheduler()
	return s.ListenAndServe(ctx, c.GetConfig().Server.Address)
}
