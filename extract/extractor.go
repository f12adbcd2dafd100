package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/halverson/comfyscan/containers"
	"github.com/halverson/comfyscan/ffprobe"
	"github.com/halverson/comfyscan/graphapi"
	"github.com/halverson/comfyscan/metacache"
)

// ErrUnsupportedFormat is returned for file extensions no locator handles.
// It is fatal for that file only, never for a batch.
var ErrUnsupportedFormat = errors.New("extract: unsupported file format")

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".m4v":  true,
}

// Extractor dispatches files to the per-container classifiers. The zero
// value works; ProbeBinary, Cache and Logger are optional collaborators.
type Extractor struct {
	Detect      graphapi.DetectOptions
	ProbeBinary string
	Cache       *metacache.Cache
	Logger      *slog.Logger
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// ExtractFile reads one file and classifies its metadata by container type.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".png":
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, err
		}
		return e.FromPNG(data)
	case ext == ".jpg" || ext == ".jpeg":
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, err
		}
		return e.FromJPEG(data)
	case ext == ".webp":
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, err
		}
		return e.FromWebP(data)
	case videoExtensions[ext]:
		return e.FromVideoFile(ctx, path)
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// FromPNG classifies the tEXt chunks of a PNG buffer, ComfyUI chunks first.
func (e *Extractor) FromPNG(data []byte) (Result, error) {
	blobs, err := containers.PNGTextChunks(data)
	if err != nil {
		return Result{}, err
	}
	sortByOrigin(blobs)
	return classify(blobs, e.Detect), nil
}

// FromJPEG classifies the probed EXIF fields of a JPEG buffer. A missing
// or undecodable EXIF block means nothing was found, not an error.
func (e *Extractor) FromJPEG(data []byte) (Result, error) {
	blobs, err := containers.JPEGBlobs(data)
	if err != nil {
		e.logger().Debug("no usable EXIF block", "err", err)
		return Result{}, nil
	}
	return classify(blobs, e.Detect), nil
}

// FromWebP classifies the EXIF comment of a WebP buffer.
func (e *Extractor) FromWebP(data []byte) (Result, error) {
	blobs, err := containers.WebPBlobs(data)
	if err != nil {
		return Result{}, err
	}
	return classify(blobs, e.Detect), nil
}

// FromVideoFile probes the container with ffprobe and classifies its tag
// dictionaries. Results are cached per path when a cache is attached,
// invalidated by modify time and size.
func (e *Extractor) FromVideoFile(ctx context.Context, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, err
	}

	if e.Cache != nil {
		if cached, ok := e.Cache.Lookup(path, info.ModTime(), info.Size()); ok {
			if result, ok := cached.(Result); ok {
				return result, nil
			}
		}
	}

	probed, err := ffprobe.Inspect(ctx, e.ProbeBinary, path)
	if err != nil {
		return Result{}, err
	}
	result := e.FromVideoTags(probed.Format.Tags, probed.StreamTags())

	if e.Cache != nil {
		e.Cache.Store(path, info.ModTime(), info.Size(), result)
	}
	return result, nil
}

// FromVideoTags classifies an already-probed tag dictionary: the
// container-level tags and each stream's tags.
func (e *Extractor) FromVideoTags(formatTags map[string]string, streamTags []map[string]string) Result {
	blobs := containers.VideoBlobs(formatTags, streamTags)
	return classify(blobs, e.Detect)
}
