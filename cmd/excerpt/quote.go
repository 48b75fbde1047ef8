package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/quote"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [file]",
	Short: "Generate a short plain-text quote of a post",
	Long: `Generate a plain-text quote of a post, such as the text shown next to a
reply that links it. The post is read from file, or from stdin when file is
"-" or missing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuote,
}

// quoteOutput is the --json form of the quote command.
type quoteOutput struct {
	Quote                               string   `json:"quote"`
	CanGenerateIgnoringNestedPostQuotes bool     `json:"canGenerateIgnoringNestedPostQuotes"`
	UntitledAttachments                 []int    `json:"untitledAttachments,omitempty"`
	PostLinks                           []string `json:"postLinks,omitempty"`
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := readPost(cmd, args)
	if err != nil {
		return err
	}

	opts := cfg.QuoteOptions()
	if s, _ := cmd.Flags().GetString("trim-point"); s != "" {
		tp, err := quote.ParseTrimPoint(s)
		if err != nil {
			return err
		}
		opts.TrimPoint = tp
	}
	if opts.MaxLength <= 0 {
		return fmt.Errorf("quote max length must be positive, got %d", opts.MaxLength)
	}
	if err := opts.TrimOptions().Validate(); err != nil {
		return err
	}

	var out quoteOutput
	opts.OnUntitledAttachment = func(a *content.Attachment) {
		out.UntitledAttachments = append(out.UntitledAttachments, a.ID)
	}
	opts.OnPostLink = func(pl *content.PostLink) {
		out.PostLinks = append(out.PostLinks, pl.URL)
	}
	out.Quote = quote.Generate(p, opts)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		opts.OnUntitledAttachment = nil
		opts.OnPostLink = nil
		out.CanGenerateIgnoringNestedPostQuotes = quote.CanGenerateIgnoringNestedPostQuotes(p, opts)
		return printJSON(cmd.OutOrStdout(), out)
	}
	if out.Quote == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("The post has nothing to quote."))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Quote)
	return nil
}

func init() {
	addInputFlags(quoteCmd)
	addGenerationFlags(quoteCmd)
	quoteCmd.Flags().String("trim-point", "", "restrict trimming: sentence-end or sentence-or-word-end")
	quoteCmd.Flags().Bool("json", false, "print the quote with generation details as JSON")

	rootCmd.AddCommand(quoteCmd)
}
