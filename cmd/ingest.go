package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pruthakjani5/gtutor/internal/document"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <subject> <file-or-url>",
	Short: "Ingest a PDF into a subject's knowledge base",
	Long: `Ingest extracts text from a PDF, splits it into chunks, and stores
them in the subject's knowledge base for retrieval. The source may be a
local file path or an http(s) URL.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	subjectName, source := args[0], args[1]

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var added int
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		added, err = a.Tutor.IngestURL(ctx, subjectName, source)
	} else {
		added, err = a.Tutor.IngestFile(ctx, subjectName, source)
	}
	if err != nil {
		switch {
		case errors.Is(err, document.ErrDecode):
			return fmt.Errorf("could not read PDF %q: %w", source, err)
		case errors.Is(err, document.ErrTransport):
			return fmt.Errorf("could not download %q: %w", source, err)
		}
		return err
	}

	fmt.Printf("Added %d chunks to %q.\n", added, subjectName)
	return nil
}
