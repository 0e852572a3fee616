// Package media manages the files behind image, video, and audio blocks.
// Files live under a single media root, sorted into images/, videos/, and
// audio/ subdirectories by MIME category and named with fresh UUIDs so
// imports never collide. Callers hold relative paths only; the absolute
// location stays an implementation detail of this package.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

// MaxDownloadSize caps a single remote import at 100 MB.
const MaxDownloadSize = 100 << 20

// ErrTooLarge reports a remote file exceeding MaxDownloadSize.
var ErrTooLarge = errors.New("media file exceeds maximum download size")

// ErrUnsupportedType reports a MIME type outside image/, video/, audio/.
var ErrUnsupportedType = errors.New("unsupported media type")

// Info describes an imported file. It carries everything needed to build the
// matching block content variant.
type Info struct {
	FilePath    string // relative to the media root, e.g. "images/<uuid>.jpg"
	MimeType    string
	OriginalURL *string  // set for URL imports
	Width       *int     // images only
	Height      *int     // images only
	Duration    *float64 // reserved; probing needs a media toolchain
}

// Importer downloads and copies media files into the media root.
type Importer struct {
	root   string
	client *http.Client
	log    *zap.SugaredLogger
}

// NewImporter creates an Importer rooted at dir, creating the category
// subdirectories if needed. A nil client uses http.DefaultClient; a nil
// logger disables logging.
func NewImporter(dir string, client *http.Client, log *zap.SugaredLogger) (*Importer, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, sub := range []string{"images", "videos", "audio"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create media directory: %w", err)
		}
	}
	return &Importer{root: dir, client: client, log: log}, nil
}

// ImportFromURL downloads the file at rawURL into the media root. Only http
// and https URLs are accepted, and the download is cut off at
// MaxDownloadSize.
func (im *Importer) ImportFromURL(ctx context.Context, rawURL string) (Info, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Info{}, fmt.Errorf("parse media url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Info{}, fmt.Errorf("media url scheme must be http or https, got %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Info{}, fmt.Errorf("build media request: %w", err)
	}
	resp, err := im.client.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("download media: unexpected status %s", resp.Status)
	}
	if resp.ContentLength > MaxDownloadSize {
		return Info{}, ErrTooLarge
	}

	mimeType := sniffMimeType(resp.Header.Get("Content-Type"), parsed.Path)
	category, err := categoryFor(mimeType)
	if err != nil {
		return Info{}, err
	}

	rel := path.Join(category, uuid.NewString()+extensionFor(mimeType, parsed.Path))
	// Read one byte past the cap so an oversize body is detected, not
	// silently truncated.
	size, err := im.writeFile(rel, io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return Info{}, err
	}
	if size > MaxDownloadSize {
		im.removeQuietly(rel)
		return Info{}, ErrTooLarge
	}

	info := Info{FilePath: rel, MimeType: mimeType, OriginalURL: &rawURL}
	im.fillImageDimensions(&info)
	im.log.Infow("media imported", "url", rawURL, "path", rel, "bytes", size)
	return info, nil
}

// ImportFromFile copies a local file into the media root.
func (im *Importer) ImportFromFile(_ context.Context, srcPath string) (Info, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return Info{}, fmt.Errorf("open media file: %w", err)
	}
	defer src.Close()

	mimeType := sniffMimeType("", srcPath)
	category, err := categoryFor(mimeType)
	if err != nil {
		return Info{}, err
	}

	rel := path.Join(category, uuid.NewString()+extensionFor(mimeType, srcPath))
	size, err := im.writeFile(rel, src)
	if err != nil {
		return Info{}, err
	}

	info := Info{FilePath: rel, MimeType: mimeType}
	im.fillImageDimensions(&info)
	im.log.Infow("media copied", "src", srcPath, "path", rel, "bytes", size)
	return info, nil
}

// Delete removes the file at the relative path.
func (im *Importer) Delete(rel string) error {
	full, err := im.FullPath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("delete media file: %w", err)
	}
	im.log.Infow("media deleted", "path", rel)
	return nil
}

// Exists reports whether the file at the relative path is present.
func (im *Importer) Exists(rel string) (bool, error) {
	full, err := im.FullPath(rel)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat media file: %w", err)
}

// FullPath resolves a relative media path to an absolute one, rejecting
// anything that would escape the media root.
func (im *Importer) FullPath(rel string) (string, error) {
	if rel == "" || strings.Contains(rel, "..") || strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "\\") {
		return "", fmt.Errorf("invalid media path %q", rel)
	}
	return filepath.Join(im.root, filepath.FromSlash(rel)), nil
}

// Content builds the block content variant matching the file's MIME category.
func (info Info) Content() (garden.BlockContent, error) {
	switch {
	case strings.HasPrefix(info.MimeType, "image/"):
		return garden.ImageContent{
			FilePath:    info.FilePath,
			MimeType:    info.MimeType,
			OriginalURL: info.OriginalURL,
			Width:       info.Width,
			Height:      info.Height,
		}, nil
	case strings.HasPrefix(info.MimeType, "video/"):
		return garden.VideoContent{
			FilePath:    info.FilePath,
			MimeType:    info.MimeType,
			OriginalURL: info.OriginalURL,
			Duration:    info.Duration,
		}, nil
	case strings.HasPrefix(info.MimeType, "audio/"):
		return garden.AudioContent{
			FilePath:    info.FilePath,
			MimeType:    info.MimeType,
			OriginalURL: info.OriginalURL,
			Duration:    info.Duration,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, info.MimeType)
}

func (im *Importer) writeFile(rel string, src io.Reader) (int64, error) {
	full, err := im.FullPath(rel)
	if err != nil {
		return 0, err
	}
	dst, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		im.removeQuietly(rel)
		return 0, fmt.Errorf("write media file: %w", err)
	}
	return size, nil
}

func (im *Importer) removeQuietly(rel string) {
	if full, err := im.FullPath(rel); err == nil {
		os.Remove(full)
	}
}

// fillImageDimensions decodes just the image header for width and height.
// Failure to decode is not an import failure; dimensions stay unset.
func (im *Importer) fillImageDimensions(info *Info) {
	if !strings.HasPrefix(info.MimeType, "image/") {
		return
	}
	full, err := im.FullPath(info.FilePath)
	if err != nil {
		return
	}
	f, err := os.Open(full)
	if err != nil {
		return
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		im.log.Debugw("image dimensions unavailable", "path", info.FilePath, "error", err)
		return
	}
	info.Width = &cfg.Width
	info.Height = &cfg.Height
}

// sniffMimeType prefers the server-declared Content-Type, falling back to
// the file extension.
func sniffMimeType(contentType, filePath string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "" && mt != "application/octet-stream" {
			return mt
		}
	}
	if ext := path.Ext(filePath); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			if parsed, _, err := mime.ParseMediaType(mt); err == nil {
				return parsed
			}
		}
	}
	return "application/octet-stream"
}

func categoryFor(mimeType string) (string, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "images", nil
	case strings.HasPrefix(mimeType, "video/"):
		return "videos", nil
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
}

// extensionFor picks a filename extension, preferring the source path's
// extension when it agrees with the MIME type.
func extensionFor(mimeType, srcPath string) string {
	if ext := path.Ext(srcPath); ext != "" {
		if mt := mime.TypeByExtension(ext); strings.HasPrefix(mt, mimeType) {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
