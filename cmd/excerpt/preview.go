package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/preview"
	"github.com/aellingwood/excerpt/internal/text"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Generate a shortened preview of a post",
	Long: `Generate a preview of a post: the leading part of its content trimmed at a
sentence or word end and followed by a read-more marker.

The post is read from file, or from stdin when file is "-" or missing.
Nothing is printed but a note when the whole post fits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := readPost(cmd, args)
	if err != nil {
		return err
	}

	gen, err := preview.New(cfg.PreviewOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	result := gen.Generate(p)
	if result == nil {
		logger.Debug().Int("maxLength", gen.Options().MaxLength).Msg("post fits without a preview")
		fmt.Fprintln(out, color.GreenString("The post fits; no preview needed."))
		return nil
	}

	if plain, _ := cmd.Flags().GetBool("text"); plain {
		opts := cfg.TextOptions()
		opts.KeepFullCodeBlocks = true
		fmt.Fprintln(out, text.GetPostText(&content.Post{Content: result, Attachments: p.Attachments}, opts))
		return nil
	}
	return printJSON(out, result)
}

func init() {
	addInputFlags(previewCmd)
	addGenerationFlags(previewCmd)
	previewCmd.Flags().Bool("text", false, "print the preview as plain text instead of JSON")

	rootCmd.AddCommand(previewCmd)
}
