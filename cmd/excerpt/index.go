package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/search"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Build a JSON search index of the posts in a directory",
	Long: `Build a search index of the posts under dir (default: the current
directory) holding each post's quote and plain text. With --query the
matching posts are listed instead.`,
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
		if loadErr != nil {
			if docs == nil {
				return loadErr
			}
			logger.Warn().Err(loadErr).Str("dir", dir).Msg("some posts could not be loaded")
		}

		f := cmd.Flags()
		link := cfg.Feed.Link
		if f.Changed("link") {
			link, _ = f.GetString("link")
		}
		maxContent, _ := f.GetInt("max-content")
		entries := search.Build(docs, search.Options{
			BaseLink:         link,
			Quote:            cfg.QuoteOptions(),
			Text:             cfg.TextOptions(),
			MaxContentLength: maxContent,
		})

		if query, _ := f.GetString("query"); query != "" {
			table := newTable(cmd.OutOrStdout(), "Slug", "Title", "Quote")
			for _, e := range search.Match(entries, query) {
				table.Append([]string{e.Slug, e.Title, e.Quote})
			}
			table.Render()
			return nil
		}

		data, err := search.GenerateIndex(entries)
		if err != nil {
			return fmt.Errorf("encoding index: %w", err)
		}
		data = append(data, '\n')
		output, _ := f.GetString("output")
		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing index: %w", err)
		}
		logger.Info().Str("path", output).Int("entries", len(entries)).Msg("search index written")
		return nil
	},
}

func init() {
	indexCmd.Flags().String("link", "", "site URL prefixed to post slugs (default from config)")
	indexCmd.Flags().Int("max-content", 0, "cut the text of each post to about this many characters (0 keeps it all)")
	indexCmd.Flags().String("query", "", "list the posts matching every word of the query")
	indexCmd.Flags().StringP("output", "o", "", "write the index to a file instead of stdout")

	rootCmd.AddCommand(indexCmd)
}
