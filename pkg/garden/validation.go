package garden

import (
	"net/url"
	"strings"
)

// Validation gates entity construction and mutation. All functions here are
// pure predicates with no I/O, invoked by the Service before any repository
// write; adapters never validate.

// ValidateChannelTitle rejects empty or whitespace-only titles.
func ValidateChannelTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidInputf("channel title cannot be empty")
	}
	return nil
}

// ValidateBlockContent dispatches on the content variant and checks the
// type-specific rules: non-empty text, well-formed http(s) URLs for links,
// traversal-safe relative paths and category-matching MIME types for media.
func ValidateBlockContent(content BlockContent) error {
	switch c := content.(type) {
	case TextContent:
		if strings.TrimSpace(c.Body) == "" {
			return invalidInputf("text block cannot be empty")
		}
		return nil
	case LinkContent:
		if err := ValidateURL(c.URL); err != nil {
			return err
		}
		if err := validateOptionalText("title", c.Title); err != nil {
			return err
		}
		if err := validateOptionalText("description", c.Description); err != nil {
			return err
		}
		return validateOptionalText("alt_text", c.AltText)
	case ImageContent:
		if err := validateMediaCommon(c.FilePath, c.MimeType, "image", c.OriginalURL); err != nil {
			return err
		}
		return validateOptionalText("alt_text", c.AltText)
	case VideoContent:
		if err := validateMediaCommon(c.FilePath, c.MimeType, "video", c.OriginalURL); err != nil {
			return err
		}
		return validateOptionalText("alt_text", c.AltText)
	case AudioContent:
		if err := validateMediaCommon(c.FilePath, c.MimeType, "audio", c.OriginalURL); err != nil {
			return err
		}
		if err := validateOptionalText("title", c.Title); err != nil {
			return err
		}
		return validateOptionalText("artist", c.Artist)
	default:
		return invalidInputf("unknown content variant %T", content)
	}
}

// ValidateURL accepts only parseable http/https URLs with a host component.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return invalidInputf("link URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return invalidInputf("invalid URL %q: %v", raw, err)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return invalidInputf("URL scheme %q is not allowed, use http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return invalidInputf("URL must have a valid host")
	}
	return nil
}

func validateMediaCommon(filePath, mimeType, category string, originalURL *string) error {
	if err := validateFilePath(filePath); err != nil {
		return err
	}
	if err := validateMimeType(mimeType, category); err != nil {
		return err
	}
	if originalURL != nil {
		return ValidateURL(*originalURL)
	}
	return nil
}

// validateFilePath checks that a media path is a relative path with no
// traversal components. Paths are always scoped beneath the media root.
func validateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return invalidInputf("file path cannot be empty")
	}
	if strings.Contains(path, "..") {
		return invalidInputf("file path cannot contain '..'")
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return invalidInputf("file path must be relative")
	}
	return nil
}

func validateMimeType(mimeType, category string) error {
	if strings.TrimSpace(mimeType) == "" {
		return invalidInputf("MIME type cannot be empty")
	}
	if !strings.HasPrefix(mimeType, category+"/") {
		return invalidInputf("expected %s MIME type, got %q", category, mimeType)
	}
	return nil
}

// validateOptionalText allows nil and empty strings but rejects values that
// are only whitespace. Empty is a deliberate value; whitespace is a mistake.
func validateOptionalText(field string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		return invalidInputf("%s cannot be only whitespace", field)
	}
	return nil
}
