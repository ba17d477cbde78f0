package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"funpass/service"
	"funpass/tui"
)

func newTUICmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal pricing screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := rc.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			svc, err := service.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeInto(&err, svc)

			model := tui.NewModel(ctx, svc.Editor(), svc.Board(), svc.Bus())
			defer model.Close()

			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}
