package garden

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentType tags a BlockContent variant on the wire and in storage.
type ContentType string

// The closed set of content types.
const (
	ContentText  ContentType = "text"
	ContentLink  ContentType = "link"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentAudio ContentType = "audio"
)

// BlockContent is the tagged content payload of a block. The variant set is
// closed: Text, Link, Image, Video, Audio. Consumers switch exhaustively on
// the concrete type; the unexported marker method keeps the set sealed.
type BlockContent interface {
	isBlockContent()

	// Type returns the variant tag.
	Type() ContentType

	// DisplayTitle derives a human-readable label for the content.
	DisplayTitle() string
}

// TextContent is plain text.
type TextContent struct {
	Body string `json:"body"`
}

// LinkContent references an external resource by URL.
type LinkContent struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AltText     *string `json:"alt_text,omitempty"`
}

// ImageContent is an image stored under the media root.
type ImageContent struct {
	// FilePath is relative to the media root, e.g. "images/{uuid}.jpg".
	FilePath    string  `json:"file_path"`
	OriginalURL *string `json:"original_url,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	MimeType    string  `json:"mime_type"`
	AltText     *string `json:"alt_text,omitempty"`
}

// VideoContent is a video stored under the media root.
type VideoContent struct {
	FilePath    string   `json:"file_path"`
	OriginalURL *string  `json:"original_url,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	MimeType    string   `json:"mime_type"`
	AltText     *string  `json:"alt_text,omitempty"`
}

// AudioContent is an audio file stored under the media root.
type AudioContent struct {
	FilePath    string   `json:"file_path"`
	OriginalURL *string  `json:"original_url,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	MimeType    string   `json:"mime_type"`
	Title       *string  `json:"title,omitempty"`
	Artist      *string  `json:"artist,omitempty"`
}

func (TextContent) isBlockContent()  {}
func (LinkContent) isBlockContent()  {}
func (ImageContent) isBlockContent() {}
func (VideoContent) isBlockContent() {}
func (AudioContent) isBlockContent() {}

func (TextContent) Type() ContentType  { return ContentText }
func (LinkContent) Type() ContentType  { return ContentLink }
func (ImageContent) Type() ContentType { return ContentImage }
func (VideoContent) Type() ContentType { return ContentVideo }
func (AudioContent) Type() ContentType { return ContentAudio }

// displayTitleMax caps text-derived titles, in bytes, at a rune boundary.
const displayTitleMax = 50

// DisplayTitle returns the first line of the body, truncated.
func (c TextContent) DisplayTitle() string {
	firstLine := c.Body
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	if len(firstLine) <= displayTitleMax {
		return firstLine
	}
	end := displayTitleMax
	for end > 0 && !isRuneBoundary(firstLine, end) {
		end--
	}
	return firstLine[:end]
}

// DisplayTitle prefers the link title, falling back to the URL.
func (c LinkContent) DisplayTitle() string {
	if c.Title != nil {
		return *c.Title
	}
	return c.URL
}

// DisplayTitle prefers alt text, falling back to the file path.
func (c ImageContent) DisplayTitle() string {
	if c.AltText != nil {
		return *c.AltText
	}
	return c.FilePath
}

// DisplayTitle prefers alt text, falling back to the file path.
func (c VideoContent) DisplayTitle() string {
	if c.AltText != nil {
		return *c.AltText
	}
	return c.FilePath
}

// DisplayTitle prefers track title, then artist, then the file path.
func (c AudioContent) DisplayTitle() string {
	if c.Title != nil {
		return *c.Title
	}
	if c.Artist != nil {
		return *c.Artist
	}
	return c.FilePath
}

func isRuneBoundary(s string, i int) bool {
	return i == 0 || i == len(s) || (s[i]&0xC0) != 0x80
}

// IsMedia reports whether content is an Image, Video, or Audio variant.
func IsMedia(c BlockContent) bool {
	switch c.(type) {
	case ImageContent, VideoContent, AudioContent:
		return true
	default:
		return false
	}
}

// ContentFilePath returns the media file path, if the variant has one.
func ContentFilePath(c BlockContent) (string, bool) {
	switch v := c.(type) {
	case ImageContent:
		return v.FilePath, true
	case VideoContent:
		return v.FilePath, true
	case AudioContent:
		return v.FilePath, true
	default:
		return "", false
	}
}

// ContentMimeType returns the media MIME type, if the variant has one.
func ContentMimeType(c BlockContent) (string, bool) {
	switch v := c.(type) {
	case ImageContent:
		return v.MimeType, true
	case VideoContent:
		return v.MimeType, true
	case AudioContent:
		return v.MimeType, true
	default:
		return "", false
	}
}

// MarshalContent encodes content as a tagged JSON object, e.g.
// {"type":"text","body":"…"}. This is the wire and storage format.
func MarshalContent(c BlockContent) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshal content: nil content")
	}
	switch v := c.(type) {
	case TextContent:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			TextContent
		}{ContentText, v})
	case LinkContent:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			LinkContent
		}{ContentLink, v})
	case ImageContent:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			ImageContent
		}{ContentImage, v})
	case VideoContent:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			VideoContent
		}{ContentVideo, v})
	case AudioContent:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			AudioContent
		}{ContentAudio, v})
	default:
		return nil, fmt.Errorf("marshal content: unknown variant %T", c)
	}
}

// UnmarshalContent decodes a tagged JSON object into the matching variant.
func UnmarshalContent(data []byte) (BlockContent, error) {
	var probe struct {
		Type ContentType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	switch probe.Type {
	case ContentText:
		var v TextContent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal text content: %w", err)
		}
		return v, nil
	case ContentLink:
		var v LinkContent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal link content: %w", err)
		}
		return v, nil
	case ContentImage:
		var v ImageContent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal image content: %w", err)
		}
		return v, nil
	case ContentVideo:
		var v VideoContent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal video content: %w", err)
		}
		return v, nil
	case ContentAudio:
		var v AudioContent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("unmarshal audio content: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unmarshal content: unknown content type %q", probe.Type)
	}
}
