package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/content"
	"github.com/aellingwood/excerpt/internal/post"
)

// addInputFlags registers the flags of commands that read a post.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", string(post.FormatJSON), "format of a post read from stdin: json, yaml, toml or markdown")
}

// readPost reads the post named by the first argument, or stdin when there
// is no argument or it is "-".
func readPost(cmd *cobra.Command, args []string) (*content.Post, error) {
	if len(args) > 0 && args[0] != "-" {
		return post.Load(args[0])
	}
	format, _ := cmd.Flags().GetString("format")
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	p, err := post.Decode(raw, post.Format(strings.ToLower(format)))
	if err != nil {
		return nil, fmt.Errorf("decoding stdin: %w", err)
	}
	return p, nil
}
