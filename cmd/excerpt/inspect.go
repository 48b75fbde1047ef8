package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/quote"
	"github.com/aellingwood/excerpt/internal/text"
)

// snippetLength is the length block text is cut to in the inspect table.
const snippetLength = 40

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the blocks, attachments and post links of a post",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p, err := readPost(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if p.Title != "" {
			fmt.Fprintf(out, "%s %s\n\n", color.New(color.Bold).Sprint("Title:"), p.Title)
		}

		opts := cfg.TextOptions()
		opts.StopOnNewLine = true
		blocks := newTable(out, "#", "Type", "Points", "Text")
		for i, b := range p.Content {
			single := &content.Post{Content: content.Content{b}, Attachments: p.Attachments}
			snippet := strings.TrimSpace(text.GetPostText(single, opts))
			blocks.Append([]string{
				strconv.Itoa(i + 1),
				blockType(b),
				strconv.Itoa(content.CountBlock(b, p.Attachments, content.Points, content.CountOptions{})),
				quote.TrimText(snippet, snippetLength, quote.TrimOptions{}),
			})
		}
		blocks.Render()

		embedded := make(map[*content.Attachment]bool)
		for _, a := range content.VisitParts(p.Content, content.TypeAttachment, func(el content.Element) (*content.Attachment, bool) {
			ab, ok := el.(*content.AttachmentBlock)
			if !ok {
				return nil, false
			}
			a := content.ResolveAttachment(ab, p.Attachments)
			return a, a != nil
		}) {
			embedded[a] = true
		}
		if len(p.Attachments) > 0 {
			fmt.Fprintln(out)
			attachments := newTable(out, "ID", "Type", "Embedded", "Points")
			for _, a := range p.Attachments {
				if a == nil {
					continue
				}
				attachments.Append([]string{
					strconv.Itoa(a.ID),
					a.Type,
					yesNo(embedded[a]),
					strconv.Itoa(content.AttachmentPoints(a)),
				})
			}
			attachments.Render()
		}

		links := content.VisitParts(p.Content, content.TypePostLink, func(el content.Element) (*content.PostLink, bool) {
			pl, ok := el.(*content.PostLink)
			return pl, ok
		})
		if len(links) > 0 {
			fmt.Fprintln(out)
			table := newTable(out, "Post link", "Block", "Quoted")
			for _, pl := range links {
				table.Append([]string{pl.URL, yesNo(pl.Block), yesNo(len(pl.Content) > 0)})
			}
			table.Render()
		}
		return nil
	},
}

func init() {
	addInputFlags(inspectCmd)

	rootCmd.AddCommand(inspectCmd)
}
