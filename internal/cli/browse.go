package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/peerplot/pkg/config"
	"github.com/matzehuels/peerplot/pkg/pipeline"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var output, formats string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Pick a question interactively and render it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := cfg.PipelineOptions()
			if f := parseFormats(formats); len(f) > 0 {
				popts.Formats = f
			}
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), cfg, argOrEmpty(args), popts, output, noCache)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s) (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, cfg config.Config, input string, popts pipeline.Options, output string, noCache bool) error {
	src, err := c.openSource(ctx, cfg, input)
	if err != nil {
		return err
	}
	defer src.Close(ctx)

	qs, err := loadQuestions(ctx, src, nil)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		printWarning("No questions found")
		return nil
	}

	final, err := tea.NewProgram(NewQuestionListModel(qs), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(QuestionListModel)
	if !ok || m.Selected == nil {
		printInfo("Nothing selected")
		return nil
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, []stats.Question{*m.Selected}, popts)
	if result == nil {
		return err
	}
	printQuestionResult(result.Questions[0])
	if err != nil {
		return err
	}
	if _, err := writeArtifacts(output, result); err != nil {
		return err
	}
	for name := range result.Questions[0].Artifacts {
		printFile(filepath.Join(output, name))
	}
	return nil
}

// =============================================================================
// QuestionListModel - Interactive question selection
// =============================================================================

// QuestionListModel is the bubbletea model for interactive question selection.
type QuestionListModel struct {
	Questions []stats.Question
	Ratings   []stats.Classification
	Cursor    int
	Selected  *stats.Question
	Height    int
	Offset    int
}

// NewQuestionListModel creates a new question list model.
func NewQuestionListModel(qs []stats.Question) QuestionListModel {
	ratings := make([]stats.Classification, len(qs))
	for i, q := range qs {
		ratings[i] = stats.Classify(q.Matrix)
	}
	return QuestionListModel{
		Questions: qs,
		Ratings:   ratings,
		Height:    15,
	}
}

func (m QuestionListModel) Init() tea.Cmd {
	return nil
}

func (m QuestionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Questions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Questions) == 0 {
				return m, nil
			}
			q := m.Questions[m.Cursor]
			m.Selected = &q
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m QuestionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Question"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Questions))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		q := m.Questions[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		answers := strconv.FormatFloat(q.Freq.FirstChoice.Total(), 'f', -1, 64)
		rows = append(rows, []string{cursor, q.ID, truncate(q.Title, 40), ratingLabel(m.Ratings[i]), answers})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Title", "Rating", "Answers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Questions) {
				return lipgloss.NewStyle()
			}
			isCurrent := idx == m.Cursor
			rating := m.Ratings[idx]

			base := lipgloss.NewStyle()
			if col == 3 && rating.OK() {
				base = ratingStyle(rating.Category)
			} else if !isCurrent {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				base = base.Bold(true)
				if col != 3 {
					base = base.Foreground(colorCyan)
				}
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Questions))))

	return b.String()
}
