package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwaylab/outcomes-lab-backend/pkg/db/models"
)

func newPingCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity and report table row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := st.openDB(ctx)
			if err != nil {
				return err
			}
			defer closeDB(st.logg, client)

			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "database ok (%s)\n", client.Dialect())

			conn := client.DB().WithContext(ctx)
			for _, model := range models.All() {
				table := model.(interface{ TableName() string }).TableName()
				if !conn.Migrator().HasTable(model) {
					fmt.Fprintf(w, "  %-12s missing\n", table)
					continue
				}
				var count int64
				if err := conn.Model(model).Count(&count).Error; err != nil {
					return fmt.Errorf("counting %s: %w", table, err)
				}
				fmt.Fprintf(w, "  %-12s %d rows\n", table, count)
			}
			return nil
		},
	}
}
