package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gtutor",
	Short: "GTUtor - PDF-grounded tutoring assistant for GTU subjects",
	Long: `GTUtor answers questions about GTU (Gujarat Technological University)
subjects using your own study material. Ingest PDFs into per-subject
knowledge bases, then ask questions answered from the most relevant
passages plus the model's own knowledge.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
