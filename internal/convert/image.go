package convert

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register bmp decoder
	_ "golang.org/x/image/tiff" // register tiff decoder

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

type imageFormat string

const (
	formatJPEG imageFormat = "jpeg"
	formatPNG  imageFormat = "png"
)

// decodeImage opens and decodes an image file of any registered format.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.IOError("open image", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, domain.EngineError("decode image", err)
	}
	return img, nil
}

// flattenToWhite composites the image onto an opaque white background.
// Required before encoding to formats without an alpha channel.
func flattenToWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}

// convertImageFormat re-encodes the input image as JPEG or PNG. JPEG output
// is composited over white since JPEG carries no alpha channel; PNG output
// preserves transparency.
func (e *Engine) convertImageFormat(input domain.FileHandle, outputDir string, format imageFormat) domain.ConversionResult {
	img, err := decodeImage(input.Path)
	if err != nil {
		return domain.Failure(err)
	}

	var outputPath string
	switch format {
	case formatJPEG:
		outputPath = filepath.Join(outputDir, input.Stem()+".jpg")
	case formatPNG:
		outputPath = filepath.Join(outputDir, input.Stem()+".png")
	default:
		return domain.Failure(domain.EngineError(fmt.Sprintf("unsupported image format %q", format), nil))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return domain.Failure(domain.IOError("create output image", err))
	}
	defer out.Close()

	switch format {
	case formatJPEG:
		err = jpeg.Encode(out, flattenToWhite(img), &jpeg.Options{Quality: e.cfg.JPEGQuality})
	case formatPNG:
		err = png.Encode(out, img)
	}
	if err != nil {
		return domain.Failure(domain.EngineError("encode image", err))
	}

	return domain.Success(domain.FileHandle{Path: outputPath})
}

// flattenInputs re-encodes every input image as an opaque JPEG inside
// outputDir, preserving input order. The PDF assembly step requires opaque
// pages, so transparency is composited onto white here.
func (e *Engine) flattenInputs(inputs []domain.FileHandle, outputDir string) ([]string, error) {
	paths := make([]string, 0, len(inputs))
	for i, input := range inputs {
		img, err := decodeImage(input.Path)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(outputDir, fmt.Sprintf("flat_%d.jpg", i+1))
		f, err := os.Create(path)
		if err != nil {
			return nil, domain.IOError("create flattened image", err)
		}
		err = jpeg.Encode(f, flattenToWhite(img), &jpeg.Options{Quality: e.cfg.JPEGQuality})
		f.Close()
		if err != nil {
			return nil, domain.EngineError("encode flattened image", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
