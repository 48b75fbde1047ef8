package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/quote"
)

var trimCmd = &cobra.Command{
	Use:   "trim [text...]",
	Short: "Trim plain text at a sentence or word end",
	Long: `Trim plain text to about the quote length, preferring a sentence end,
then a word end, and marking the cut. Text is taken from the arguments, or
from stdin when there are none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s := strings.Join(args, " ")
		if len(args) == 0 {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			s = strings.TrimRight(string(raw), "\n")
		}

		opts := cfg.QuoteOptions()
		trimOpts := opts.TrimOptions()
		f := cmd.Flags()
		if tp, _ := f.GetString("trim-point"); tp != "" {
			if trimOpts.TrimPoint, err = quote.ParseTrimPoint(tp); err != nil {
				return err
			}
		}
		if f.Changed("line-break-penalty") {
			n, _ := f.GetInt("line-break-penalty")
			trimOpts.LineBreakPenalty = nil
			if n > 0 {
				trimOpts.LineBreakPenalty = quote.ConstantLineBreakPenalty(n)
			}
		}
		if err := trimOpts.Validate(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), quote.TrimText(s, opts.MaxLength, trimOpts))
		return nil
	},
}

func init() {
	addGenerationFlags(trimCmd)
	trimCmd.Flags().String("trim-point", "", "restrict trimming: sentence-end or sentence-or-word-end")
	trimCmd.Flags().Int("line-break-penalty", 0, "characters each line break uses up; 0 makes line breaks free (default from config)")

	rootCmd.AddCommand(trimCmd)
}
