package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/text"
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Render a post as plain text",
	Long: `Render a post as plain text. Paragraphs are separated by blank lines,
quotes are wrapped in quotation marks and attachments are replaced by their
titles or labels.`,
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

		opts := cfg.TextOptions()
		f := cmd.Flags()
		if f.Changed("soft-limit") {
			opts.SoftLimit, _ = f.GetFloat64("soft-limit")
		}
		if f.Changed("stop-on-new-line") {
			opts.StopOnNewLine, _ = f.GetBool("stop-on-new-line")
		}
		if f.Changed("skip-attachments") {
			opts.SkipAttachments, _ = f.GetBool("skip-attachments")
		}
		if f.Changed("keep-full-code-blocks") {
			opts.KeepFullCodeBlocks, _ = f.GetBool("keep-full-code-blocks")
		}

		fmt.Fprintln(cmd.OutOrStdout(), text.GetPostText(p, opts))
		return nil
	},
}

func init() {
	addInputFlags(textCmd)
	textCmd.Flags().Float64("soft-limit", 0, "stop after roughly this many characters (0 means no limit)")
	textCmd.Flags().Bool("stop-on-new-line", false, "stop at the first line break")
	textCmd.Flags().Bool("skip-attachments", false, "leave attachments out")
	textCmd.Flags().Bool("keep-full-code-blocks", false, "keep every line of code blocks")
	textCmd.Flags().Bool("skip-post-quote-blocks", false, "leave block quotes of linked posts out")

	rootCmd.AddCommand(textCmd)
}
