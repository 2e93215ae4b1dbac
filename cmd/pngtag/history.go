package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/internal/domain"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [file]",
	Short: "Show the recorded edits, newest first",
	Long: `Show the edits recorded in the journal, optionally only those of one file.
The journal is an audit trail; the tags themselves are always read from the
image files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		journal, err := a.openJournal(cmd.Context())
		if err != nil {
			return err
		}
		if journal == nil {
			return errors.New("the journal is disabled")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		var edits []*domain.Edit
		if len(args) == 1 {
			path, err := a.config.Resolve(args[0])
			if err != nil {
				return err
			}
			// edits are journaled under the symlink target
			if real, err := filepath.EvalSymlinks(path); err == nil {
				path = real
			}
			edits, err = journal.ListForPath(cmd.Context(), path, limit)
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
		} else {
			edits, err = journal.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
		}
		if len(edits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No edits recorded")
			return nil
		}

		t := newTable(cmd.OutOrStdout(), "WHEN", "FILE", "KEY", "POLICY", "CHANGE")
		for _, e := range edits {
			t.Row(humanize.Time(e.EditedAt), e.Path, e.Key, e.Policy, describeChange(e))
		}
		return t.Flush()
	},
}

func describeChange(e *domain.Edit) string {
	before := strings.Join(e.OldValues, " | ")
	if before == "" {
		before = "(unset)"
	}
	if e.Removed() {
		return before + " -> (removed)"
	}
	return before + " -> " + e.NewValue
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of edits to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
