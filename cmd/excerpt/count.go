package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/content"
)

var countCmd = &cobra.Command{
	Use:   "count [file]",
	Short: "Measure a post in characters, points and lines",
	Long: `Measure every block of a post and the post as a whole. Points weigh line
breaks and short lines, lines estimate the rendered height.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p, err := readPost(cmd, args)
		if err != nil {
			return err
		}

		opts := content.CountOptions{
			MinimizeGeneratedPostLinkBlockQuotes: cfg.Preview.MinimizeGeneratedPostLinkBlockQuotes,
		}
		if cmd.Flags().Changed("minimize-generated-quotes") {
			opts.MinimizeGeneratedPostLinkBlockQuotes, _ = cmd.Flags().GetBool("minimize-generated-quotes")
		}

		table := newTable(cmd.OutOrStdout(), "#", "Type", "Characters", "Points", "Lines")
		for i, b := range p.Content {
			table.Append([]string{
				strconv.Itoa(i + 1),
				blockType(b),
				strconv.Itoa(content.CountBlock(b, p.Attachments, content.Characters, opts)),
				strconv.Itoa(content.CountBlock(b, p.Attachments, content.Points, opts)),
				strconv.Itoa(content.CountBlock(b, p.Attachments, content.Lines, opts)),
			})
		}
		table.SetFooter([]string{
			"",
			"total",
			strconv.Itoa(content.CountPost(p, content.Characters, opts)),
			strconv.Itoa(content.CountPost(p, content.Points, opts)),
			strconv.Itoa(content.CountPost(p, content.Lines, opts)),
		})
		table.Render()
		return nil
	},
}

// blockType names a block for display.
func blockType(b content.Block) string {
	switch v := b.(type) {
	case content.Text, content.InlineContent:
		return "paragraph"
	case content.Element:
		return v.Type()
	}
	return "unknown"
}

func init() {
	addInputFlags(countCmd)
	countCmd.Flags().Bool("minimize-generated-quotes", false, "count generated post link block quotes as collapsed")

	rootCmd.AddCommand(countCmd)
}
