package cli

import (
	"github.com/spf13/cobra"

	pio "github.com/matzehuels/peerplot/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var ids string

	cmd := &cobra.Command{
		Use:   "export <output.json>",
		Short: "Copy questions from the configured source to a JSON file",
		Long: `Export questions from the configured source (for example a MongoDB
collection) into a JSON batch file that render, classify and browse accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := c.openSource(ctx, cfg, "")
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			qs, err := loadQuestions(ctx, src, parseIDs(ids))
			if err != nil {
				return err
			}
			if err := pio.ExportJSON(qs, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %d questions from %s", len(qs), src.Name())
			printFile(args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&ids, "ids", "", "only export these question ids (comma-separated)")
	return cmd
}
