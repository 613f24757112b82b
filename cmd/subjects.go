package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pruthakjani5/gtutor/internal/subject"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Manage subjects",
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		subjects := a.Tutor.Subjects()
		if len(subjects) == 0 {
			fmt.Println("No subjects yet. Create one with: gtutor subjects create <name>")
			return nil
		}
		for _, s := range subjects {
			count, err := a.Tutor.PassageCount(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d chunks)\n", s, count)
		}
		return nil
	},
}

var subjectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := a.Tutor.CreateSubject(args[0]); err != nil {
			return err
		}
		fmt.Printf("Subject %q created.\n", args[0])
		return nil
	},
}

var subjectsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a subject and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := a.Tutor.DeleteSubject(args[0]); err != nil {
			if errors.Is(err, subject.ErrNotFound) {
				return fmt.Errorf("subject %q does not exist", args[0])
			}
			return err
		}
		fmt.Printf("Subject %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	subjectsCmd.AddCommand(subjectsListCmd)
	subjectsCmd.AddCommand(subjectsCreateCmd)
	subjectsCmd.AddCommand(subjectsDeleteCmd)
	rootCmd.AddCommand(subjectsCmd)
}
