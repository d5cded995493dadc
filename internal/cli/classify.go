package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/peerplot/pkg/config"
	"github.com/matzehuels/peerplot/pkg/plot"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var ids string

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the rating of each question",
		Long: `Print each question's confidence matrix and its rating: the category
with the greatest weight. Questions with an all-zero matrix have no rating.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runClassify(cmd.Context(), cfg, argOrEmpty(args), parseIDs(ids))
		},
	}
	cmd.Flags().StringVar(&ids, "ids", "", "only classify these question ids (comma-separated)")
	return cmd
}

func (c *CLI) runClassify(ctx context.Context, cfg config.Config, input string, ids []string) error {
	src, err := c.openSource(ctx, cfg, input)
	if err != nil {
		return err
	}
	defer src.Close(ctx)

	qs, err := loadQuestions(ctx, src, ids)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		printWarning("No questions found")
		return nil
	}
	fmt.Println(classifyTable(qs))
	return nil
}

// classifyTable renders one row per question.
func classifyTable(qs []stats.Question) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	ratings := make([]stats.Classification, len(qs))

	rows := make([][]string, len(qs))
	for i, q := range qs {
		ratings[i] = stats.Classify(q.Matrix)
		row := []string{q.ID, truncate(q.Title, 32), ratingLabel(ratings[i])}
		for _, cat := range stats.Categories {
			row = append(row, plot.Percent(q.Matrix.Value(cat)))
		}
		row = append(row, strconv.FormatFloat(q.Freq.FirstChoice.Total(), 'f', -1, 64))
		rows[i] = row
	}

	headers := []string{"ID", "Title", "Rating"}
	for _, cat := range stats.Categories {
		headers = append(headers, cat.Label())
	}
	headers = append(headers, "Answers")

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 2 && ratings[row].OK():
				return ratingStyle(ratings[row].Category).Padding(0, 1)
			case col == 2, col == 1:
				return base.Foreground(colorGray)
			case col >= 3:
				return base.Align(lipgloss.Right)
			}
			return base
		})
	return t.Render()
}

// ratingLabel is the plain label, or a dash without a rating.
func ratingLabel(cl stats.Classification) string {
	if !cl.OK() {
		return "—"
	}
	return cl.Label()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
