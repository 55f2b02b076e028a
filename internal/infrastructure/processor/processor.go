package processor

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/coverart/internal/domain"

	// webp inputs decode through the stdlib image registry; imaging covers
	// png/jpeg/bmp/gif/tiff on its own.
	_ "golang.org/x/image/webp"
)

// Dimension thresholds of the classifier. Fixed, not configurable.
const (
	largeEdge = 300
	smallEdge = 200
)

const (
	fallbackStem      = "image"
	fallbackExtension = "png"
	outputSuffix      = "_processed"
)

// acceptedExtensions is matched against the literal extension, exactly as
// present in the dropped path. "PNG" is not "png".
var acceptedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"bmp":  {},
	"webp": {},
}

type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	zlog.Logger.Info().
		Int("large_edge", largeEdge).
		Int("small_edge", smallEdge).
		Msg("ImageProcessor initialized")
	return &ImageProcessor{}
}

// Extension returns the literal extension of the final path element,
// without the dot and without case folding. A file with no dot, or a
// dotfile like ".bashrc", has no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}

// AcceptedExtension reports whether the path passes the extension gate.
func AcceptedExtension(path string) bool {
	_, ok := acceptedExtensions[Extension(path)]
	return ok
}

// Classify maps decoded dimensions to target dimensions. Evaluated in this
// exact order: anything over 300 on either edge shrinks to 300x300, images
// at most 200x200 pass through unchanged, the rest snap to 200x200. The
// two non-identity branches are square regardless of aspect ratio.
func Classify(width, height int) (targetWidth, targetHeight int) {
	switch {
	case width > largeEdge || height > largeEdge:
		return largeEdge, largeEdge
	case width <= smallEdge && height <= smallEdge:
		return width, height
	default:
		return smallEdge, smallEdge
	}
}

// DeriveOutputPath builds `<stem>_processed.<ext>` in the input's
// directory. Stem falls back to "image", extension to "png". Collisions
// are not checked; the save step overwrites.
func DeriveOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := Extension(inputPath)

	stem := base
	if ext != "" {
		stem = base[:len(base)-len(ext)-1]
	}
	if stem == "" || stem == "." {
		stem = fallbackStem
	}
	if ext == "" {
		ext = fallbackExtension
	}

	return filepath.Join(filepath.Dir(inputPath), stem+outputSuffix+"."+ext)
}

// Decode loads the file into a pixel buffer. Any parse or I/O failure is
// returned as a DecodeError carrying the underlying reason.
func (p *ImageProcessor) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", path).Msg("failed to decode image")
		return nil, &domain.DecodeError{Reason: err}
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		zlog.Logger.Error().Str("path", path).Msg("decoded image is empty")
		return nil, &domain.DecodeError{Reason: domain.ErrEmptyImage}
	}

	zlog.Logger.Info().
		Str("path", path).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("image decoded")

	return img, nil
}

// Resample returns the image untouched when it already has the target
// dimensions, otherwise an exact (non-aspect-preserving) Lanczos resize to
// targetWidth x targetHeight.
func (p *ImageProcessor) Resample(img image.Image, targetWidth, targetHeight int) image.Image {
	width, height := GetImageDimensions(img)
	if width == targetWidth && height == targetHeight {
		zlog.Logger.Info().
			Int("width", width).
			Int("height", height).
			Msg("dimensions already at target, passing image through")
		return img
	}

	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)

	zlog.Logger.Info().
		Int("original_width", width).
		Int("original_height", height).
		Int("target_width", targetWidth).
		Int("target_height", targetHeight).
		Msg("image resampled")

	return resized
}

// Save encodes the buffer into the container implied by the output path's
// extension. Failures (unsupported encode format, I/O) come back as an
// EncodeError.
func (p *ImageProcessor) Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		zlog.Logger.Error().Err(err).Str("path", path).Msg("failed to save image")
		return &domain.EncodeError{Reason: err}
	}

	zlog.Logger.Info().Str("path", path).Msg("image saved")
	return nil
}

func GetImageDimensions(img image.Image) (width, height int) {
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}
