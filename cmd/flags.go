package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gnolang/flaglint/lint"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	expiredStyle = cellStyle.Foreground(lipgloss.Color("203")) // red
	missingStyle = cellStyle.Foreground(lipgloss.Color("214")) // orange
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List the configured feature flags and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		printFlagTable(cmd.OutOrStdout(), config.DescribeFlags(time.Now()))
		return nil
	},
}

const (
	statusActive    = "active"
	statusExpired   = "expired"
	statusUndefined = "undefined"
)

func flagState(s lint.FlagStatus) string {
	switch {
	case !s.Defined:
		return statusUndefined
	case s.Expired:
		return statusExpired
	}
	return statusActive
}

func printFlagTable(w io.Writer, statuses []lint.FlagStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "No feature flags configured.")
		return
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		expires := s.Expires
		if expires == "" {
			expires = "-"
		}
		strategy := s.Strategy
		if strategy == "" {
			strategy = "-"
		}
		rows = append(rows, []string{s.Name, flagState(s), expires, strategy, s.Description})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("FLAG", "STATUS", "EXPIRES", "CLEANUP", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				switch rows[row][1] {
				case statusExpired:
					return expiredStyle
				case statusUndefined:
					return missingStyle
				}
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}
