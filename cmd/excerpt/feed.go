package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed [dir]",
	Short: "Generate an RSS or Atom feed of the posts in a directory",
	Long: `Generate a feed of the posts under dir (default: the current directory).
Items are described by the post quote, or by the full post text with
--full-text.`,
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
		fc := cfg.Feed
		if f.Changed("link") {
			fc.Link, _ = f.GetString("link")
		}
		if f.Changed("limit") {
			fc.Limit, _ = f.GetInt("limit")
		}
		fullText, _ := f.GetBool("full-text")

		items := feed.ItemsFromDocuments(docs, feed.ItemOptions{
			BaseLink: fc.Link,
			Quote:    cfg.QuoteOptions(),
			Text:     cfg.TextOptions(),
		})
		opts := feed.FeedOptions{
			Title:       fc.Title,
			Description: fc.Description,
			Link:        fc.Link,
			Language:    fc.Language,
			MaxItems:    fc.Limit,
			FullText:    fullText,
		}

		var data []byte
		switch format, _ := f.GetString("format"); format {
		case "rss":
			data, err = feed.GenerateRSS(items, opts)
		case "atom":
			data, err = feed.GenerateAtom(items, opts)
		default:
			return fmt.Errorf("unknown feed format %q: want rss or atom", format)
		}
		if err != nil {
			return err
		}

		output, _ := f.GetString("output")
		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing feed: %w", err)
		}
		logger.Info().Str("path", output).Int("items", len(items)).Msg("feed written")
		return nil
	},
}

func init() {
	feedCmd.Flags().String("format", "rss", "feed format: rss or atom")
	feedCmd.Flags().String("link", "", "site URL prefixed to post slugs (default from config)")
	feedCmd.Flags().Int("limit", 0, "maximum number of items (default from config)")
	feedCmd.Flags().Bool("full-text", false, "describe items by their full text instead of the quote")
	feedCmd.Flags().StringP("output", "o", "", "write the feed to a file instead of stdout")

	rootCmd.AddCommand(feedCmd)
}
