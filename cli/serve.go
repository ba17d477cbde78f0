package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"funpass/service"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing admin HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := rc.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, err := service.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeInto(&err, svc)

			return svc.Run(ctx)
		},
	}
}
