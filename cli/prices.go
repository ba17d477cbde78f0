package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"funpass/entities"
	"funpass/pricing"
	"funpass/service"
)

func newPricesCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "List, change or reset pass prices",
		Long: `Query and change the pass price table.

Subcommands:
  list   - Print the current prices
  set    - Change one or more prices in a single batch
  reset  - Restore the default prices

Examples:
  funpass prices list
  funpass prices set "Express Pass=2500" "Student Pass=1,250.00"
  funpass prices reset`,
	}

	cmd.AddCommand(
		newPricesListCmd(rc),
		newPricesSetCmd(rc),
		newPricesResetCmd(rc),
	)

	return cmd
}

func newPricesListCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the current prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, rc, func(ctx context.Context, svc *service.Service) error {
				printPrices(cmd.OutOrStdout(), svc.Board().Prices())
				return nil
			})
		},
	}
}

func newPricesSetCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   `set "<pass type>=<amount>"...`,
		Short: "Change one or more prices in a single batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseAssignments(args)
			if err != nil {
				return err
			}

			return withService(cmd, rc, func(ctx context.Context, svc *service.Service) error {
				editor := svc.Editor()
				for _, edit := range edits {
					result, err := editor.UpdateField(edit.passType, edit.amount)
					if err != nil {
						return fmt.Errorf("%s: %w", edit.passType, err)
					}
					if result == pricing.Invalid {
						return fmt.Errorf("%s: %q is not a price", edit.passType, edit.amount)
					}
				}

				if err := editor.Commit(ctx); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Prices updated successfully!")
				printPrices(cmd.OutOrStdout(), svc.Board().Prices())
				return nil
			})
		},
	}
}

func newPricesResetCmd(rc *RootConfig) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("resetting overwrites every price, pass --yes to confirm")
			}

			return withService(cmd, rc, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Editor().Reset(ctx); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Prices reset to default values!")
				printPrices(cmd.OutOrStdout(), svc.Board().Prices())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")

	return cmd
}

type assignment struct {
	passType entities.PassType
	amount   string
}

func parseAssignments(args []string) ([]assignment, error) {
	edits := make([]assignment, 0, len(args))
	for _, arg := range args {
		name, amount, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected <pass type>=<amount>, got %q", arg)
		}

		passType := entities.PassType(strings.TrimSpace(name))
		if !passType.IsKnown() {
			return nil, fmt.Errorf("%w: %q", entities.ErrUnknownPassType, name)
		}

		edits = append(edits, assignment{
			passType: passType,
			amount:   strings.TrimSpace(amount),
		})
	}
	return edits, nil
}

func withService(cmd *cobra.Command, rc *RootConfig, fn func(ctx context.Context, svc *service.Service) error) (err error) {
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

	return fn(ctx, svc)
}

func printPrices(w io.Writer, entries []entities.PriceEntry) {
	for _, entry := range entries {
		fmt.Fprintf(w, "%-22s %10s\n", entry.PassType, entry.Price)
	}
}
