package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSubject string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question",
	Long: `Ask answers a question using the selected subject's ingested material
and chat history. Without --subject, the model answers from its general
knowledge and nothing is recorded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSubject, "subject", "s", "", "subject to answer within")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	question := strings.Join(args, " ")
	answer, err := a.Tutor.Ask(ctx, askSubject, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
