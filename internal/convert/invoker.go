// Package convert validates uploads and invokes the conversion engines. The
// Engine normalizes every outcome into a ConversionResult so callers
// pattern-match on success or failure instead of catching panics or
// inspecting raw exec errors.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/observability"
)

// Invoker is the uniform contract to the conversion engines.
type Invoker interface {
	Invoke(ctx context.Context, req domain.ConversionRequest) domain.ConversionResult
}

// Config holds engine tuning knobs.
type Config struct {
	// RenderDPI is the fixed target resolution for PDF page rendering.
	RenderDPI int
	// JPEGQuality applies to every JPEG the engines encode.
	JPEGQuality int
	// SofficeBinary is the office renderer executable name or path.
	SofficeBinary string
	// RenderTimeout bounds one office rendering run.
	RenderTimeout time.Duration
}

// Engine routes conversion requests to the concrete conversion backends.
type Engine struct {
	cfg    Config
	logger *observability.Logger
}

// NewEngine creates a conversion engine.
func NewEngine(cfg Config, logger *observability.Logger) *Engine {
	if cfg.RenderDPI == 0 {
		cfg.RenderDPI = 200
	}
	if cfg.JPEGQuality == 0 {
		cfg.JPEGQuality = 95
	}
	if cfg.SofficeBinary == "" {
		cfg.SofficeBinary = "soffice"
	}
	if cfg.RenderTimeout == 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.WithComponent("convert"),
	}
}

// Invoke runs the conversion described by req. Inputs must already have
// passed validation; engines still report malformed content as a failure.
// Outputs are written into req.OutputDir, which the caller owns.
func (e *Engine) Invoke(ctx context.Context, req domain.ConversionRequest) domain.ConversionResult {
	if len(req.Inputs) == 0 {
		return domain.Failure(domain.EngineError("conversion request has no inputs", nil))
	}

	started := time.Now()
	log := e.logger.WithOperation(req.Intent.String())

	var result domain.ConversionResult
	switch req.Intent {
	case domain.IntentPdfToWord:
		result = e.pdfToWord(ctx, req.Inputs[0], req.OutputDir)
	case domain.IntentDocxToPdf:
		result = e.officeToPDF(ctx, req.Inputs[0], req.OutputDir)
	case domain.IntentPdfToJpg:
		result = e.pdfToImages(ctx, req.Inputs[0], req.OutputDir)
	case domain.IntentJpgToPdf:
		result = e.imagesToPDF(ctx, req.Inputs, req.OutputDir)
	case domain.IntentPngToJpg:
		result = e.convertImageFormat(req.Inputs[0], req.OutputDir, formatJPEG)
	case domain.IntentJpgToPng:
		result = e.convertImageFormat(req.Inputs[0], req.OutputDir, formatPNG)
	case domain.IntentCompress:
		result = e.compressPDF(ctx, req.Inputs[0], req.OutputDir)
	case domain.IntentMerge:
		result = e.mergePDFs(ctx, req.Inputs, req.OutputDir)
	default:
		result = domain.Failure(domain.EngineError(
			fmt.Sprintf("unsupported intent %q", req.Intent), nil))
	}

	if result.OK() {
		log.Info().
			Int("inputs", len(req.Inputs)).
			Int("outputs", len(result.Outputs)).
			Dur("elapsed", time.Since(started)).
			Msg("Conversion finished")
	} else {
		log.Error().
			Int("inputs", len(req.Inputs)).
			Dur("elapsed", time.Since(started)).
			Err(result.Err).
			Msg("Conversion failed")
	}
	return result
}
