package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/post"
	"github.com/aellingwood/excerpt/internal/seo"
)

var metaCmd = &cobra.Command{
	Use:   "meta <file>",
	Short: "Print the link preview meta tags of a post",
	Long: `Print the canonical link, description, Open Graph, Twitter card and
JSON-LD tags of a post, described by its quote.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		doc, err := post.Read(args[0])
		if err != nil {
			return err
		}

		link := cfg.Feed.Link
		if cmd.Flags().Changed("link") {
			link, _ = cmd.Flags().GetString("link")
		}
		meta := seo.FromDocument(doc, seo.Options{
			BaseLink: link,
			SiteName: cfg.Feed.Title,
			Language: cfg.Feed.Language,
			Quote:    cfg.QuoteOptions(),
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), meta)
		}
		fmt.Fprintln(cmd.OutOrStdout(), seo.Tags(meta))
		return nil
	},
}

func init() {
	metaCmd.Flags().String("link", "", "site URL prefixed to the post slug (default from config)")
	metaCmd.Flags().Bool("json", false, "print the metadata as JSON instead of tags")

	rootCmd.AddCommand(metaCmd)
}
