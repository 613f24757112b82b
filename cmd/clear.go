package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pruthakjani5/gtutor/internal/subject"
)

var clearCmd = &cobra.Command{
	Use:   "clear <subject>",
	Short: "Remove a subject's ingested chunks and history",
	Long: `Clear empties a subject's knowledge base and chat history while
keeping the subject registered. Use "subjects delete" to remove the
subject entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := a.Tutor.ClearStore(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, subject.ErrNotFound) {
				return fmt.Errorf("subject %q does not exist", args[0])
			}
			return err
		}
		fmt.Printf("Cleared all data for %q.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
