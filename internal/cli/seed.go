package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwaylab/outcomes-lab-backend/internal/seed"
)

func newSeedCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic TheLook-shaped dataset",
		Long: `Generate users, products, orders and order items with realistic shapes
for local development. The same --seed always produces the same rows
relative to the current time.

Example:
  outcomesctl seed --users 500 --orders 2000 --reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := st.openDB(ctx)
			if err != nil {
				return err
			}
			defer closeDB(st.logg, client)

			opts := seed.Options{
				Users:     st.v.GetInt("seed.users"),
				Products:  st.v.GetInt("seed.products"),
				Orders:    st.v.GetInt("seed.orders"),
				Seed:      st.v.GetUint64("seed.seed"),
				BatchSize: st.v.GetInt("seed.batch_size"),
				Reset:     st.v.GetBool("seed.reset"),
			}
			summary, err := seed.Generate(ctx, client, opts)
			if err != nil {
				return err
			}

			ctx = st.logg.WithFields(ctx, map[string]any{
				"users":       summary.Users,
				"products":    summary.Products,
				"orders":      summary.Orders,
				"order_items": summary.OrderItems,
				"returned":    summary.ReturnedItems,
			})
			st.logg.Info(ctx, "seed.complete")
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d products, %d orders, %d order items (%d returned)\n",
				summary.Users, summary.Products, summary.Orders, summary.OrderItems, summary.ReturnedItems)
			st.invalidateReports(cmd)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("users", seed.DefaultUsers, "number of users")
	flags.Int("products", seed.DefaultProducts, "number of products")
	flags.Int("orders", seed.DefaultOrders, "number of orders")
	flags.Uint64("seed", 1, "random seed")
	flags.Int("batch-size", seed.DefaultBatchSize, "rows per insert batch")
	flags.Bool("reset", false, "delete existing dataset rows first")
	bindFlags(st.v, cmd, map[string]string{
		"seed.users":      "users",
		"seed.products":   "products",
		"seed.orders":     "orders",
		"seed.seed":       "seed",
		"seed.batch_size": "batch-size",
		"seed.reset":      "reset",
	})
	return cmd
}
