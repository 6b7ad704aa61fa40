package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/annumhq/annum/internal/clock"
	"github.com/annumhq/annum/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live clock for the running task",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "refresh interval")
}

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true)
	watchClockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func runWatch(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	if _, err := application.loadTasks(cmd.Context()); err != nil {
		return err
	}
	active := application.coordinator.Tasks().Active()
	if active == nil {
		fmt.Println("no running task")
		return nil
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	ticker := clock.NewTicker(watchInterval)
	ticker.Start()
	defer ticker.Stop()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	for {
		select {
		case <-ctx.Done():
			if interactive {
				fmt.Println()
			}
			return nil
		case <-ticker.C():
			line := watchLine(active.Title, application.coordinator.Engine().Elapsed(), interactive)
			if interactive {
				fmt.Print("\r\033[K" + line)
			} else {
				fmt.Println(line)
			}
		}
	}
}

func watchLine(title string, elapsedMS int64, styled bool) string {
	clockText := ui.FormatClock(elapsedMS)
	if !styled {
		return title + "  " + clockText
	}
	return watchTitleStyle.Render(title) + "  " + watchClockStyle.Render(clockText)
}
