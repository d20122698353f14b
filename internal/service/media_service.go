package service

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ripple/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultMediaRoot       = "media"
	DefaultMaxUploadSizeMB = 10
	ThumbnailMaxSize       = 256
	ThumbnailWebPQuality   = 70
)

// Upload categories map to subdirectories of the media root.
const (
	MediaCategoryProfiles = "userprofiles"
	MediaCategoryPosts    = "posts"
)

// MediaService stores uploaded images under the media root. Files are
// written to a temp path and renamed into place, so a failed upload never
// leaves a partial file behind.
type MediaService struct {
	mediaRoot          string
	maxUploadSizeBytes int64
}

// StoredImage describes a persisted upload.
type StoredImage struct {
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	SizeBytes     int64  `json:"size_bytes"`
}

// NewMediaService constructs a MediaService rooted at mediaRoot.
func NewMediaService(mediaRoot string, maxUploadSizeMB int) *MediaService {
	if mediaRoot == "" {
		mediaRoot = DefaultMediaRoot
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	return &MediaService{
		mediaRoot:          mediaRoot,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Store validates and persists an uploaded image. The stored name is the
// slugified original name plus a random suffix, so repeated uploads of
// the same file never collide.
func (s *MediaService) Store(category, filename, contentType string, content []byte) (*StoredImage, error) {
	if category != MediaCategoryProfiles && category != MediaCategoryPosts {
		return nil, models.NewValidationError("Unknown upload category")
	}
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detected) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	name := buildStoredName(filename, format)
	relPath := filepath.ToSlash(filepath.Join("uploads", category, name))
	absPath := filepath.Join(s.mediaRoot, filepath.FromSlash(relPath))

	if err := writeFileAtomic(absPath, content); err != nil {
		return nil, models.NewInternalError(err)
	}

	stored := &StoredImage{
		Path:      relPath,
		SizeBytes: int64(len(content)),
	}

	// Thumbnail failures do not fail the upload; the original is already
	// safely in place.
	if thumb, err := s.storeThumbnail(absPath, decoded); err == nil {
		stored.ThumbnailPath = filepath.ToSlash(filepath.Join("uploads", category, thumb))
	}

	return stored, nil
}

// Remove deletes a stored file by its media-relative path. Missing files
// are ignored.
func (s *MediaService) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return models.NewValidationError("Invalid media path")
	}
	err := os.Remove(filepath.Join(s.mediaRoot, clean))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *MediaService) storeThumbnail(originalAbs string, decoded image.Image) (string, error) {
	resized := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: ThumbnailWebPQuality}); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(originalAbs), filepath.Ext(originalAbs))
	thumbName := base + ".thumb.webp"
	thumbAbs := filepath.Join(filepath.Dir(originalAbs), thumbName)
	if err := writeFileAtomic(thumbAbs, buf.Bytes()); err != nil {
		return "", err
	}
	return thumbName, nil
}

// buildStoredName slugifies the original filename and appends a random
// suffix, keeping the decoded format's canonical extension.
func buildStoredName(filename, format string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug := slugify(base)
	if slug == "" {
		slug = "upload"
	}
	return fmt.Sprintf("%s-%s%s", slug, uuid.NewString(), extForFormat(format))
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func extForFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// writeFileAtomic writes to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}
