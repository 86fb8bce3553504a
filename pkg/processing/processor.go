// Package processing decodes image files into analysis frames and renders
// annotated overlays from analysis results. All file, network and encoder
// work for the module lives here so the analysis packages stay pure.
package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/crepsource/video-editor-sub000/pkg/raster"
)

// MaxAnalysisDim is the default long edge cap applied before analysis. Frames
// larger than this carry no extra signal for the block-based analyzers and
// cost quadratically more to scan.
const MaxAnalysisDim = 1280

// Processor loads frames and writes annotated output.
type Processor struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewProcessor creates a Processor with a 30 second HTTP timeout and a
// disabled logger.
func NewProcessor() *Processor {
	return NewProcessorWithLogger(zerolog.Nop())
}

// NewProcessorWithLogger creates a Processor that logs load and save
// operations to the given logger.
func NewProcessorWithLogger(log zerolog.Logger) *Processor {
	return &Processor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "processing").Logger(),
	}
}

// LoadFrame loads an image file and converts it into an analysis frame.
// WebP files that the registered decoders reject get an explicit decode
// attempt.
func (p *Processor) LoadFrame(path string) (raster.Frame, error) {
	img, err := p.loadImage(path)
	if err != nil {
		return raster.Frame{}, err
	}

	f := raster.FromImage(img)
	p.log.Debug().Str("path", path).
		Int("width", f.Width).Int("height", f.Height).
		Msg("frame loaded")
	return f, nil
}

// LoadFrameFromURL downloads an image over http(s) and converts it into an
// analysis frame.
func (p *Processor) LoadFrameFromURL(frameURL string) (raster.Frame, error) {
	parsed, err := url.Parse(frameURL)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return raster.Frame{}, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsed.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, frameURL, nil)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Frame-Analyzer/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("failed to download frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return raster.Frame{}, fmt.Errorf("failed to download frame: HTTP %d %s", resp.StatusCode, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return raster.Frame{}, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("failed to read frame data: %w", err)
	}

	img, err := decodeImageBytes(data)
	if err != nil {
		return raster.Frame{}, err
	}
	return raster.FromImage(img), nil
}

// LoadFrameSmart loads a frame from either a file path or an http(s) URL.
func (p *Processor) LoadFrameSmart(source string) (raster.Frame, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadFrameFromURL(source)
	}
	return p.LoadFrame(source)
}

func (p *Processor) loadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}
	if img, _, err := image.Decode(f); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

func decodeImageBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// ResizeForAnalysis downscales the frame so its long edge is at most maxDim,
// preserving aspect ratio. Frames already within the limit come back
// unchanged. maxDim <= 0 uses MaxAnalysisDim.
func (p *Processor) ResizeForAnalysis(f raster.Frame, maxDim int) (raster.Frame, error) {
	if err := f.Validate(); err != nil {
		return raster.Frame{}, err
	}
	if maxDim <= 0 {
		maxDim = MaxAnalysisDim
	}
	if f.Width <= maxDim && f.Height <= maxDim {
		return f, nil
	}

	img := frameToNRGBA(f)
	var resized *image.NRGBA
	if f.Width >= f.Height {
		resized = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}

	out := raster.FromImage(resized)
	p.log.Debug().
		Int("from_width", f.Width).Int("from_height", f.Height).
		Int("to_width", out.Width).Int("to_height", out.Height).
		Msg("frame resized for analysis")
	return out, nil
}

// EncodeFrameBase64 encodes the frame as a base64 jpeg or png, downscaled to
// maxDim, for sending to a vision model.
func (p *Processor) EncodeFrameBase64(f raster.Frame, format string, maxDim, quality int) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	var img image.Image = frameToNRGBA(f)
	if maxDim > 0 && (f.Width > maxDim || f.Height > maxDim) {
		if f.Width >= f.Height {
			img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveImage saves an image with the specified format. WebP gets an explicit
// encoder; everything else goes through imaging.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// frameToNRGBA wraps the frame buffer as an NRGBA image without copying.
func frameToNRGBA(f raster.Frame) *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
