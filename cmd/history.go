package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pruthakjani5/gtutor/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage a subject's chat history",
}

var historyListCmd = &cobra.Command{
	Use:   "list <subject>",
	Short: "Show a subject's recorded turns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		turns, err := a.Tutor.History(args[0])
		if err != nil {
			return err
		}
		if len(turns) == 0 {
			fmt.Printf("No history for %q yet.\n", args[0])
			return nil
		}
		for i, turn := range turns {
			fmt.Printf("[%d] Human: %s\n", i, turn.Human)
			fmt.Printf("    Assistant: %s\n", turn.Ai)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <subject> <index>",
	Short: "Delete one turn by index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid turn index: %s", args[1])
		}

		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := a.Tutor.DeleteTurn(args[0], index); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no turn %d in %q", index, args[0])
			}
			return err
		}
		fmt.Printf("Deleted turn %d from %q.\n", index, args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <subject>",
	Short: "Clear a subject's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := a.Tutor.ClearHistory(args[0]); err != nil {
			return err
		}
		fmt.Printf("Cleared history for %q.\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
