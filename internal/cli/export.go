package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/runwaylab/outcomes-lab-backend/internal/reports"
)

const defaultExportFile = "outcomes-report.xlsx"

func newExportCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every analytics report to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := st.v.GetInt("export.limit")
			if limit < 1 || limit > analytics.MaxLimit {
				return fmt.Errorf("--limit must be between 1 and %d", analytics.MaxLimit)
			}
			days := st.v.GetInt("export.days")
			if days < 1 || days > analytics.MaxDays {
				return fmt.Errorf("--days must be between 1 and %d", analytics.MaxDays)
			}

			ctx := cmd.Context()
			client, err := st.openDB(ctx)
			if err != nil {
				return err
			}
			defer closeDB(st.logg, client)

			svc, err := analytics.NewService(client, analytics.Options{
				StatusOnlyReturns: st.cfg.Analytics.StatusOnlyReturns(),
			}, st.logg)
			if err != nil {
				return err
			}

			book, err := reports.Workbook(ctx, svc, reports.Options{Limit: limit, Days: days})
			if err != nil {
				return err
			}
			defer book.Close()

			output := st.v.GetString("export.output")
			if output == "" {
				output = defaultExportFile
			}
			if err := book.SaveAs(output); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", defaultExportFile, "output file")
	flags.Int("limit", analytics.DefaultLimit, "rows in the brand and country sheets")
	flags.Int("days", analytics.DefaultDays, "days in the revenue over time sheet")
	bindFlags(st.v, cmd, map[string]string{
		"export.output": "output",
		"export.limit":  "limit",
		"export.days":   "days",
	})
	return cmd
}
