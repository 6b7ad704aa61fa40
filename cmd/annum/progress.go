package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/annumhq/annum/internal/ui"
	"github.com/annumhq/annum/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how far the year has come",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

const progressGridColumns = 30

var (
	passedDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	todayDotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	futureDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func runProgress(cmd *cobra.Command, args []string) error {
	now := time.Now()
	styled := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Print(renderProgress(progress.StatsAt(now), progress.UntilMidnight(now), styled))
	return nil
}

func renderProgress(stats progress.Stats, untilMidnight time.Duration, styled bool) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d: %.1f%% complete\n", stats.Year, stats.Percentage)
	fmt.Fprintf(&builder, "day %d of %d, %d days left, next day in %s\n\n",
		stats.DaysPassed, stats.TotalDays, stats.DaysRemaining, ui.FormatDurationShort(untilMidnight))

	for day := 1; day <= stats.TotalDays; day++ {
		builder.WriteString(progressDot(day, stats, styled))
		if day%progressGridColumns == 0 {
			builder.WriteByte('\n')
		}
	}
	if stats.TotalDays%progressGridColumns != 0 {
		builder.WriteByte('\n')
	}
	return builder.String()
}

func progressDot(day int, stats progress.Stats, styled bool) string {
	switch {
	case day == stats.DaysPassed:
		if styled {
			return todayDotStyle.Render("●")
		}
		return "●"
	case day < stats.DaysPassed:
		if styled {
			return passedDotStyle.Render("▪")
		}
		return "▪"
	default:
		if styled {
			return futureDotStyle.Render("·")
		}
		return "·"
	}
}
