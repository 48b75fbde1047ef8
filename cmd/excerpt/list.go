package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/quote"
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the posts in a directory with their quotes",
	Long: `List every post under dir (default: the current directory), newest first,
with its date, slug, title and quote. Files that fail to load are reported
after the table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		docs, loadErr := loadDocuments(dir)
		if docs == nil && loadErr != nil {
			return loadErr
		}
		out := cmd.OutOrStdout()
		if len(docs) == 0 && loadErr == nil {
			fmt.Fprintln(out, "No posts found.")
			return nil
		}

		opts := cfg.QuoteOptions()
		if n, _ := cmd.Flags().GetInt("quote-length"); n > 0 {
			opts.MaxLength = n
		}
		table := newTable(out, "Date", "Slug", "Title", "Quote")
		for _, d := range docs {
			date := ""
			if !d.Date.IsZero() {
				date = d.Date.Format("2006-01-02")
			}
			title := d.Post.Title
			if title == "" {
				title = color.HiBlackString("(untitled)")
			}
			table.Append([]string{date, d.Slug, title, quote.Generate(d.Post, opts)})
		}
		table.Render()
		logger.Debug().Int("posts", len(docs)).Str("dir", dir).Msg("listed posts")

		if loadErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Some posts failed to load:\n%v", loadErr))
		}
		return nil
	},
}

// loadDocuments loads the posts under dir sorted newest first. Posts that
// loaded are returned along with the errors of those that did not.
func loadDocuments(dir string) ([]*post.Document, error) {
	docs, err := post.LoadDir(dir)
	if docs == nil {
		return nil, err
	}
	post.SortNewest(docs)
	return docs, err
}

func init() {
	listCmd.Flags().Int("quote-length", 60, "quote length in the table (0 uses the configured length)")

	rootCmd.AddCommand(listCmd)
}
