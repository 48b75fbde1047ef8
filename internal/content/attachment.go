package content

import (
	"time"
	"unicode/utf8"
)

// Attachment types.
const (
	AttachmentPicture = "picture"
	AttachmentVideo   = "video"
	AttachmentAudio   = "audio"
	AttachmentFile    = "file"
	AttachmentSocial  = "social"
	AttachmentLink    = "link"
)

// Attachment is a media object owned by a post. Exactly one of the typed
// fields matching Type is expected to be set.
type Attachment struct {
	ID      int      `json:"id,omitempty"      yaml:"id,omitempty"`
	Type    string   `json:"type"              yaml:"type"`
	Spoiler bool     `json:"spoiler,omitempty" yaml:"spoiler,omitempty"`
	Picture *Picture `json:"picture,omitempty" yaml:"picture,omitempty"`
	Video   *Video   `json:"video,omitempty"   yaml:"video,omitempty"`
	Audio   *Audio   `json:"audio,omitempty"   yaml:"audio,omitempty"`
	File    *File    `json:"file,omitempty"    yaml:"file,omitempty"`
	Social  *Social  `json:"social,omitempty"  yaml:"social,omitempty"`
}

// Picture is an image attachment.
type Picture struct {
	Type   string `json:"type,omitempty"   yaml:"type,omitempty"`
	Title  string `json:"title,omitempty"  yaml:"title,omitempty"`
	Width  int    `json:"width,omitempty"  yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Size   int    `json:"size,omitempty"   yaml:"size,omitempty"`
	URL    string `json:"url,omitempty"    yaml:"url,omitempty"`
}

// Video is a video attachment.
type Video struct {
	Title    string   `json:"title,omitempty"    yaml:"title,omitempty"`
	Provider string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	ID       string   `json:"id,omitempty"       yaml:"id,omitempty"`
	URL      string   `json:"url,omitempty"      yaml:"url,omitempty"`
	Width    int      `json:"width,omitempty"    yaml:"width,omitempty"`
	Height   int      `json:"height,omitempty"   yaml:"height,omitempty"`
	Duration int      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Picture  *Picture `json:"picture,omitempty"  yaml:"picture,omitempty"`
}

// Audio is an audio attachment.
type Audio struct {
	Title    string `json:"title,omitempty"    yaml:"title,omitempty"`
	Author   string `json:"author,omitempty"   yaml:"author,omitempty"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	URL      string `json:"url,omitempty"      yaml:"url,omitempty"`
}

// File is a downloadable file attachment.
type File struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Ext  string `json:"ext,omitempty"  yaml:"ext,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Size int    `json:"size,omitempty" yaml:"size,omitempty"`
	URL  string `json:"url,omitempty"  yaml:"url,omitempty"`
}

// Social is an embedded post from a social network.
type Social struct {
	Provider    string        `json:"provider"              yaml:"provider"`
	ID          string        `json:"id,omitempty"          yaml:"id,omitempty"`
	URL         string        `json:"url,omitempty"         yaml:"url,omitempty"`
	Content     string        `json:"content,omitempty"     yaml:"content,omitempty"`
	Date        *time.Time    `json:"date,omitempty"        yaml:"date,omitempty"`
	Author      SocialAuthor  `json:"author"                yaml:"author"`
	Attachments []*Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

// SocialAuthor is the author of a Social post.
type SocialAuthor struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	URL  string `json:"url,omitempty"  yaml:"url,omitempty"`
}

// Point costs of attachments.
const (
	MediaAttachmentPoints  = 480
	SocialAttachmentPoints = 240
	OtherAttachmentPoints  = 160
)

// Messages is the localized label table. Every label is optional.
type Messages struct {
	TextContent TextContentMessages `json:"textContent" yaml:"textContent" mapstructure:"textContent"`
}

// TextContentMessages holds labels used when rendering content as text.
type TextContentMessages struct {
	Block  BlockMessages  `json:"block"  yaml:"block"  mapstructure:"block"`
	Inline InlineMessages `json:"inline" yaml:"inline" mapstructure:"inline"`
}

// BlockMessages are generic labels for untitled attachments.
type BlockMessages struct {
	Picture    string `json:"picture,omitempty"    yaml:"picture,omitempty"    mapstructure:"picture"`
	Video      string `json:"video,omitempty"      yaml:"video,omitempty"      mapstructure:"video"`
	Audio      string `json:"audio,omitempty"      yaml:"audio,omitempty"      mapstructure:"audio"`
	Attachment string `json:"attachment,omitempty" yaml:"attachment,omitempty" mapstructure:"attachment"`
}

// InlineMessages are labels for inline parts. LinkTo may contain "{0}",
// which is replaced with a domain name.
type InlineMessages struct {
	Attachment string `json:"attachment,omitempty" yaml:"attachment,omitempty" mapstructure:"attachment"`
	Link       string `json:"link,omitempty"       yaml:"link,omitempty"       mapstructure:"link"`
	LinkTo     string `json:"linkTo,omitempty"     yaml:"linkTo,omitempty"     mapstructure:"linkTo"`
}

// ResolveAttachment returns the attachment embedded by block: either the
// copy it carries or the one with a matching id in attachments.
func ResolveAttachment(block *AttachmentBlock, attachments []*Attachment) *Attachment {
	if block.Attachment != nil {
		return block.Attachment
	}
	if block.AttachmentID == 0 {
		return nil
	}
	for _, a := range attachments {
		if a != nil && a.ID == block.AttachmentID {
			return a
		}
	}
	return nil
}

// AttachmentPoints returns the point cost of an attachment. Pictures and
// videos cost a fixed amount. A social post costs a base amount plus its
// text plus the media it carries.
func AttachmentPoints(a *Attachment) int {
	switch a.Type {
	case AttachmentPicture, AttachmentVideo:
		return MediaAttachmentPoints
	case AttachmentSocial:
		points := SocialAttachmentPoints
		if a.Social == nil {
			return points
		}
		points += utf8.RuneCountInString(a.Social.Content)
		for _, sub := range a.Social.Attachments {
			if sub != nil && (sub.Type == AttachmentPicture || sub.Type == AttachmentVideo) {
				points += MediaAttachmentPoints
			}
		}
		return points
	}
	return OtherAttachmentPoints
}

// AttachmentText returns the textual representation of an attachment: its
// title in quotes, or for social posts the author and the post text. It
// returns "" for untitled attachments.
func AttachmentText(a *Attachment, labels *BlockMessages) string {
	if a.Type == AttachmentSocial {
		if a.Social == nil {
			return ""
		}
		return socialText(a.Social, labels)
	}
	return attachmentTitleText(a)
}

func attachmentTitleText(a *Attachment) string {
	switch a.Type {
	case AttachmentPicture:
		if a.Picture != nil && a.Picture.Title != "" {
			return "«" + a.Picture.Title + "»"
		}
	case AttachmentVideo:
		if a.Video != nil && a.Video.Title != "" {
			return "«" + a.Video.Title + "»"
		}
	case AttachmentAudio:
		if a.Audio != nil && a.Audio.Title != "" {
			if a.Audio.Author != "" {
				return a.Audio.Author + " — «" + a.Audio.Title + "»"
			}
			return "«" + a.Audio.Title + "»"
		}
	}
	return ""
}

func socialText(s *Social, labels *BlockMessages) string {
	author := socialAuthorText(s)
	if text := socialContentText(s, labels); text != "" {
		return author + ": " + text
	}
	return author
}

func socialAuthorText(s *Social) string {
	switch {
	case s.Author.Name != "" && s.Author.ID != "":
		return s.Author.Name + " (@" + s.Author.ID + ")"
	case s.Author.Name != "":
		return s.Author.Name
	case s.Author.ID != "":
		return "@" + s.Author.ID
	}
	return s.Provider
}

func socialContentText(s *Social, labels *BlockMessages) string {
	if s.Content != "" {
		return "«" + s.Content + "»"
	}
	for _, a := range s.Attachments {
		if a == nil {
			continue
		}
		if text := attachmentTitleText(a); text != "" {
			return text
		}
	}
	if labels == nil {
		return ""
	}
	for _, a := range s.Attachments {
		if a == nil {
			continue
		}
		if label := AttachmentTypeLabel(a, labels); label != "" {
			return label
		}
	}
	return ""
}

// AttachmentTypeLabel returns the generic label for an attachment's type,
// or "" if labels has none.
func AttachmentTypeLabel(a *Attachment, labels *BlockMessages) string {
	if labels == nil {
		return ""
	}
	switch a.Type {
	case AttachmentPicture:
		return labels.Picture
	case AttachmentVideo:
		return labels.Video
	case AttachmentAudio:
		return labels.Audio
	case AttachmentSocial:
		if a.Social == nil {
			return labels.Attachment
		}
		for _, sub := range a.Social.Attachments {
			if sub == nil {
				continue
			}
			if label := AttachmentTypeLabel(sub, labels); label != "" {
				return label
			}
		}
		return a.Social.Provider
	}
	return labels.Attachment
}
