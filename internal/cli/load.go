package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runwaylab/outcomes-lab-backend/internal/etl"
)

func newLoadCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the TheLook CSV exports into the database",
		Long: `Load users.csv, products.csv, orders.csv and order_items.csv from the
data directory. Missing files are skipped with a warning; a failing table
does not stop the others.

Example:
  outcomesctl load --data-dir data/raw --dsn "postgres://..."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := st.openDB(ctx)
			if err != nil {
				return err
			}
			defer closeDB(st.logg, client)

			dataDir := st.cfg.ETL.DataDir
			if v := st.v.GetString("load.data_dir"); v != "" {
				dataDir = v
			}
			batch := st.cfg.ETL.BatchSize
			if v := st.v.GetInt("load.batch_size"); v > 0 {
				batch = v
			}

			loader := etl.NewLoader(client, etl.Options{DataDir: dataDir, BatchSize: batch}, st.logg)
			results, runErr := loader.Run(ctx)

			w := cmd.OutOrStdout()
			loaded := 0
			for _, res := range results {
				if res.Skipped {
					fmt.Fprintf(w, "%-12s skipped (%s: %s)\n", res.Table, res.Reason, res.File)
					continue
				}
				loaded += res.Rows
				fmt.Fprintf(w, "%-12s %d rows, columns: %s", res.Table, res.Rows, strings.Join(res.Columns, ","))
				if len(res.MissingColumns) > 0 {
					fmt.Fprintf(w, ", missing: %s", strings.Join(res.MissingColumns, ","))
				}
				if res.CoercedCells > 0 {
					fmt.Fprintf(w, ", coerced cells: %d", res.CoercedCells)
				}
				if res.UnknownStatuses > 0 {
					fmt.Fprintf(w, ", unknown statuses: %d", res.UnknownStatuses)
				}
				fmt.Fprintln(w)
			}
			if loaded > 0 {
				st.invalidateReports(cmd)
			}
			return runErr
		},
	}

	cmd.Flags().String("data-dir", "", "directory holding the CSV exports (default: OUTCOMES_ETL_DATA_DIR)")
	cmd.Flags().Int("batch-size", 0, "rows per insert batch (default: OUTCOMES_ETL_BATCH_SIZE)")
	bindFlags(st.v, cmd, map[string]string{
		"load.data_dir":   "data-dir",
		"load.batch_size": "batch-size",
	})
	return cmd
}
