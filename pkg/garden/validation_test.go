package garden

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChannelTitle(t *testing.T) {
	assert.NoError(t, ValidateChannelTitle("Reading List"))
	assert.Error(t, ValidateChannelTitle(""))
	assert.Error(t, ValidateChannelTitle("   \t\n"))
}

func TestValidateBlockContentAccepts(t *testing.T) {
	origin := "https://example.com/a.jpg"
	empty := ""

	tests := []struct {
		name    string
		content BlockContent
	}{
		{"plain text", TextContent{Body: "hello"}},
		{"link", LinkContent{URL: "https://example.com/essay"}},
		{"link with empty optional", LinkContent{URL: "http://example.com", Title: &empty}},
		{"image", ImageContent{FilePath: "images/a.jpg", MimeType: "image/jpeg", OriginalURL: &origin}},
		{"video", VideoContent{FilePath: "videos/b.mp4", MimeType: "video/mp4"}},
		{"audio", AudioContent{FilePath: "audio/c.mp3", MimeType: "audio/mpeg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateBlockContent(tt.content))
		})
	}
}

func TestValidateBlockContentRejects(t *testing.T) {
	whitespace := "   "
	badURL := "not a url"

	tests := []struct {
		name    string
		content BlockContent
	}{
		{"empty text", TextContent{Body: ""}},
		{"whitespace text", TextContent{Body: " \n\t "}},
		{"empty link url", LinkContent{URL: ""}},
		{"relative link url", LinkContent{URL: "/just/a/path"}},
		{"ftp link url", LinkContent{URL: "ftp://example.com/file"}},
		{"hostless link url", LinkContent{URL: "https://"}},
		{"whitespace link title", LinkContent{URL: "https://example.com", Title: &whitespace}},
		{"empty image path", ImageContent{FilePath: "", MimeType: "image/jpeg"}},
		{"traversal image path", ImageContent{FilePath: "../../etc/passwd", MimeType: "image/jpeg"}},
		{"absolute image path", ImageContent{FilePath: "/images/a.jpg", MimeType: "image/jpeg"}},
		{"empty image mime", ImageContent{FilePath: "images/a.jpg", MimeType: ""}},
		{"wrong image mime category", ImageContent{FilePath: "images/a.jpg", MimeType: "video/mp4"}},
		{"bad image origin url", ImageContent{FilePath: "images/a.jpg", MimeType: "image/jpeg", OriginalURL: &badURL}},
		{"wrong video mime category", VideoContent{FilePath: "videos/b.mp4", MimeType: "audio/mpeg"}},
		{"whitespace audio artist", AudioContent{FilePath: "audio/c.mp3", MimeType: "audio/mpeg", Artist: &whitespace}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockContent(tt.content)
			require.Error(t, err)
			var invalid *InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/a?b=c"))
	assert.NoError(t, ValidateURL("http://localhost:8080"))
	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("example.com"))
	assert.Error(t, ValidateURL("file:///etc/passwd"))
}
