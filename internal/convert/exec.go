package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

// runCommand executes an external conversion binary and normalizes its
// failure modes: a missing binary, a context deadline, and a nonzero exit
// each map to their own domain error type.
func runCommand(ctx context.Context, binary string, args ...string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return domain.BinaryNotFoundError(binary, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.TimeoutError(fmt.Sprintf("%s exceeded its time bound", binary), ctx.Err())
		}
		return domain.EngineError(fmt.Sprintf("%s failed: %s", binary, string(output)), err)
	}
	return nil
}

// mergePDFs concatenates the input documents into one PDF in input order
// using pdfunite.
func (e *Engine) mergePDFs(ctx context.Context, inputs []domain.FileHandle, outputDir string) domain.ConversionResult {
	if len(inputs) < 2 {
		return domain.Failure(domain.InsufficientMergeFilesError(len(inputs)))
	}

	outputPath := filepath.Join(outputDir, fmt.Sprintf("merged_%s.pdf", uuid.New().String()[:8]))
	args := make([]string, 0, len(inputs)+1)
	for _, input := range inputs {
		args = append(args, input.Path)
	}
	args = append(args, outputPath)

	if err := runCommand(ctx, "pdfunite", args...); err != nil {
		return domain.Failure(err)
	}
	return domain.Success(domain.FileHandle{Path: outputPath})
}

// compressPDF rewrites the document through Ghostscript's pdfwrite device,
// which downsamples content and drops document metadata.
func (e *Engine) compressPDF(ctx context.Context, input domain.FileHandle, outputDir string) domain.ConversionResult {
	outputPath := filepath.Join(outputDir, "compressed_"+filepath.Base(input.Path))
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/ebook",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		input.Path,
	}
	if err := runCommand(ctx, "gs", args...); err != nil {
		return domain.Failure(err)
	}
	return domain.Success(domain.FileHandle{Path: outputPath})
}

// imagesToPDF assembles the input images into one multi-page PDF in input
// order. Images are flattened onto white first, then handed to ImageMagick.
func (e *Engine) imagesToPDF(ctx context.Context, inputs []domain.FileHandle, outputDir string) domain.ConversionResult {
	flattened, err := e.flattenInputs(inputs, outputDir)
	if err != nil {
		return domain.Failure(err)
	}

	outputPath := filepath.Join(outputDir, inputs[0].Stem()+".pdf")
	args := append(flattened, outputPath)
	if err := runCommand(ctx, "convert", args...); err != nil {
		return domain.Failure(err)
	}
	return domain.Success(domain.FileHandle{Path: outputPath})
}

// officeToPDF renders an office document to PDF through a headless
// LibreOffice run. The run is bounded by the engine's render timeout. A zero
// exit status without the expected output file is reported as an engine
// failure, never a silent success.
func (e *Engine) officeToPDF(ctx context.Context, input domain.FileHandle, outputDir string) domain.ConversionResult {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RenderTimeout)
	defer cancel()

	// Isolated profile dir, soffice locks its default one.
	userInstallDir := filepath.Join(outputDir, "soffice_user")
	if err := os.MkdirAll(userInstallDir, 0o755); err != nil {
		return domain.Failure(domain.IOError("create soffice profile dir", err))
	}

	args := []string{
		"-env:UserInstallation=file://" + userInstallDir,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outputDir,
		input.Path,
	}
	if err := runCommand(ctx, e.cfg.SofficeBinary, args...); err != nil {
		return domain.Failure(err)
	}

	// soffice names the output after the input stem.
	outputPath := filepath.Join(outputDir, input.Stem()+".pdf")
	if _, err := os.Stat(outputPath); err != nil {
		return domain.Failure(domain.EngineError(
			fmt.Sprintf("renderer exited cleanly but produced no file at %s", outputPath), err))
	}
	return domain.Success(domain.FileHandle{Path: outputPath})
}
