package mcpserver

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aellingwood/excerpt/internal/content"
)

var knownElementTypes = []string{
	content.TypeText, content.TypeEmoji, content.TypeQuote, content.TypeSpoiler,
	content.TypeLink, content.TypePostLink, content.TypeCode, content.TypeHeading,
	content.TypeList, content.TypeAttachment, content.TypeReadMore,
}

var knownAttachmentTypes = []string{
	content.AttachmentPicture, content.AttachmentVideo, content.AttachmentAudio,
	content.AttachmentFile, content.AttachmentSocial, content.AttachmentLink,
}

// aliases maps type names used by other content formats to ours.
var aliases = map[string]string{
	"blockquote": content.TypeQuote,
	"image":      content.AttachmentPicture,
	"img":        content.AttachmentPicture,
	"photo":      content.AttachmentPicture,
	"a":          content.TypeLink,
	"pre":        content.TypeCode,
	"ul":         content.TypeList,
	"ol":         content.TypeList,
	"h":          content.TypeHeading,
}

// findSimilarTerms finds known terms similar to input using Levenshtein
// distance and alias lookup.
func findSimilarTerms(input string, known []string, threshold int) []string {
	inputLower := strings.ToLower(input)
	seen := make(map[string]bool)
	var similar []string

	if expanded, ok := aliases[inputLower]; ok {
		for _, term := range known {
			if term == expanded && !seen[term] {
				seen[term] = true
				similar = append(similar, term)
			}
		}
	}

	for _, term := range known {
		if term == inputLower {
			continue
		}
		if levenshtein.ComputeDistance(inputLower, term) <= threshold && !seen[term] {
			seen[term] = true
			similar = append(similar, term)
		}
	}
	return similar
}

// validatePost reports content of p that the generators cannot use.
func validatePost(p *content.Post) ValidatePostOutput {
	errs := []ValidationError{}
	warns := []ValidationWarning{}

	if p.Title == "" && len(p.Content) == 0 && len(p.Attachments) == 0 {
		errs = append(errs, ValidationError{Field: "_post", Message: "post has no title, content or attachments"})
	}

	ids := make(map[int]bool)
	for i, a := range p.Attachments {
		field := fmt.Sprintf("attachments[%d]", i)
		if a == nil {
			errs = append(errs, ValidationError{Field: field, Message: "attachment is null"})
			continue
		}
		if a.ID != 0 {
			if ids[a.ID] {
				warns = append(warns, ValidationWarning{Field: field, Message: fmt.Sprintf("duplicate attachment id %d", a.ID)})
			}
			ids[a.ID] = true
		}
		if !isKnown(a.Type, knownAttachmentTypes) {
			warns = append(warns, unknownType(field+".type", "attachment", a.Type, knownAttachmentTypes))
		}
	}

	for i, b := range p.Content {
		warns = checkNode(b, fmt.Sprintf("content[%d]", i), p.Attachments, warns)
	}

	return ValidatePostOutput{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

func checkNode(n content.Node, field string, attachments []*content.Attachment, warns []ValidationWarning) []ValidationWarning {
	switch v := n.(type) {
	case content.InlineContent:
		for i, part := range v {
			warns = checkNode(part, fmt.Sprintf("%s[%d]", field, i), attachments, warns)
		}
	case *content.Unknown:
		warns = append(warns, unknownType(field, "element", v.Kind, knownElementTypes))
	case *content.AttachmentBlock:
		if content.ResolveAttachment(v, attachments) == nil {
			warns = append(warns, ValidationWarning{
				Field:   field,
				Message: fmt.Sprintf("attachment block references missing attachment %d", v.AttachmentID),
			})
		}
	case *content.Link:
		if v.URL == "" {
			warns = append(warns, ValidationWarning{Field: field, Message: "link has no url"})
		}
		warns = checkNode(v.Content, field+".content", attachments, warns)
	case *content.List:
		for i, item := range v.Items {
			warns = checkNode(item, fmt.Sprintf("%s.items[%d]", field, i), attachments, warns)
		}
	case content.Parent:
		warns = checkNode(v.Children(), field+".content", attachments, warns)
	}
	return warns
}

func isKnown(s string, known []string) bool {
	for _, k := range known {
		if s == k {
			return true
		}
	}
	return false
}

func unknownType(field, what, typ string, known []string) ValidationWarning {
	w := ValidationWarning{
		Field:   field,
		Message: fmt.Sprintf("unknown %s type %q is ignored", what, typ),
	}
	if similar := findSimilarTerms(typ, known, 2); len(similar) > 0 {
		w.Message = fmt.Sprintf("unknown %s type %q is ignored. Did you mean %q?", what, typ, similar[0])
		w.Suggestion = similar[0]
	}
	return w
}
