package convert

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

// pdfToImages renders every page of the input PDF to a JPG at the engine's
// fixed DPI. Output files are named page_N.jpg with 1-based sequential
// numbering in page order.
func (e *Engine) pdfToImages(ctx context.Context, input domain.FileHandle, outputDir string) domain.ConversionResult {
	doc, err := fitz.New(input.Path)
	if err != nil {
		return domain.Failure(domain.EngineError("open PDF", err))
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return domain.Failure(domain.EngineError("PDF has no pages", nil))
	}

	outputs := make([]domain.FileHandle, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return domain.Failure(domain.EngineError("rendering cancelled", ctx.Err()))
		default:
		}

		img, err := doc.ImageDPI(pageNum, float64(e.cfg.RenderDPI))
		if err != nil {
			return domain.Failure(domain.EngineError(
				fmt.Sprintf("render page %d", pageNum+1), err))
		}

		outputPath := filepath.Join(outputDir, fmt.Sprintf("page_%d.jpg", pageNum+1))
		outputFile, err := os.Create(outputPath)
		if err != nil {
			return domain.Failure(domain.IOError(
				fmt.Sprintf("create output for page %d", pageNum+1), err))
		}

		err = jpeg.Encode(outputFile, img, &jpeg.Options{Quality: e.cfg.JPEGQuality})
		outputFile.Close()
		if err != nil {
			return domain.Failure(domain.EngineError(
				fmt.Sprintf("encode page %d", pageNum+1), err))
		}

		outputs = append(outputs, domain.FileHandle{Path: outputPath})
	}

	return domain.Success(outputs...)
}

// pdfToWord extracts the text of every page and writes a best-effort DOCX
// reconstruction. Layout fidelity is not guaranteed; the goal is editable
// text in page order.
func (e *Engine) pdfToWord(ctx context.Context, input domain.FileHandle, outputDir string) domain.ConversionResult {
	doc, err := fitz.New(input.Path)
	if err != nil {
		return domain.Failure(domain.EngineError("open PDF", err))
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return domain.Failure(domain.EngineError("PDF has no pages", nil))
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return domain.Failure(domain.EngineError("extraction cancelled", ctx.Err()))
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return domain.Failure(domain.EngineError(
				fmt.Sprintf("extract text from page %d", pageNum+1), err))
		}
		pages = append(pages, text)
	}

	outputPath := filepath.Join(outputDir, input.Stem()+".docx")
	if err := writeDocx(outputPath, pages); err != nil {
		return domain.Failure(domain.EngineError("write DOCX", err))
	}

	return domain.Success(domain.FileHandle{Path: outputPath})
}
