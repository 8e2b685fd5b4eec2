package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/storage/sqlite"
)

var errHistoryDisabled = errors.New("session history is disabled (history-enabled=false)")

var statsHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var statsCellStyle = lipgloss.NewStyle().Padding(0, 1)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded sessions per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 366 {
				return fmt.Errorf("days must be between 1 and 366, got %d", days)
			}
			if !cfg.HistoryEnabled {
				return errHistoryDisabled
			}
			path := cfg.DBPath
			if path == "" {
				defaultPath, err := sqlite.DefaultPath(appName)
				if err != nil {
					return err
				}
				path = defaultPath
			}
			db, err := sqlite.Open(cmd.Context(), path, slog.Default())
			if err != nil {
				return err
			}
			defer db.Close()

			summaries, err := sqlite.NewSessionLog(db).Summary(cmd.Context(), days, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(summaries))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days to include, today included")
	return cmd
}

func renderStats(summaries []model.DaySummary) string {
	if len(summaries) == 0 {
		return "No sessions recorded yet."
	}
	statsTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Day", "Focus", "Work", "Short", "Long", "Skipped").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return statsHeaderStyle
			}
			return statsCellStyle
		})

	var total model.DaySummary
	for _, summary := range summaries {
		statsTable.Row(
			summary.Day,
			formatFocus(summary.FocusSeconds),
			fmt.Sprint(summary.WorkSessions),
			fmt.Sprint(summary.ShortBreaks),
			fmt.Sprint(summary.LongBreaks),
			fmt.Sprint(summary.Skipped),
		)
		total.FocusSeconds += summary.FocusSeconds
		total.WorkSessions += summary.WorkSessions
	}
	return statsTable.Render() + fmt.Sprintf("\nTotal focus: %s over %d sessions", formatFocus(total.FocusSeconds), total.WorkSessions)
}

func formatFocus(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
