package domain

import (
	"path/filepath"
	"strings"
)

// IntentKind is the closed set of conversion operations a user can request.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentPdfToWord
	IntentDocxToPdf
	IntentPdfToJpg
	IntentJpgToPdf
	IntentPngToJpg
	IntentJpgToPng
	IntentCompress
	IntentMerge
)

// String returns the transport command identifier for the intent.
func (k IntentKind) String() string {
	switch k {
	case IntentPdfToWord:
		return "pdf_to_word"
	case IntentDocxToPdf:
		return "docx_to_pdf"
	case IntentPdfToJpg:
		return "pdf_to_jpg"
	case IntentJpgToPdf:
		return "jpg_to_pdf"
	case IntentPngToJpg:
		return "png_to_jpg"
	case IntentJpgToPng:
		return "jpg_to_png"
	case IntentCompress:
		return "compress"
	case IntentMerge:
		return "merge"
	default:
		return "none"
	}
}

// IntentFromCommand maps a transport command identifier to an IntentKind.
// Returns IntentNone for commands that are not intent declarations.
func IntentFromCommand(cmd string) IntentKind {
	switch cmd {
	case "pdf_to_word":
		return IntentPdfToWord
	case "docx_to_pdf":
		return IntentDocxToPdf
	case "pdf_to_jpg":
		return IntentPdfToJpg
	case "jpg_to_pdf":
		return IntentJpgToPdf
	case "png_to_jpg":
		return IntentPngToJpg
	case "jpg_to_png":
		return IntentJpgToPng
	case "compress":
		return IntentCompress
	case "merge":
		return IntentMerge
	default:
		return IntentNone
	}
}

// IsImageIntent reports whether the intent consumes an image upload, which
// makes it eligible for chat photo messages as well as documents.
func (k IntentKind) IsImageIntent() bool {
	switch k {
	case IntentJpgToPdf, IntentPngToJpg, IntentJpgToPng:
		return true
	default:
		return false
	}
}

// FileHandle identifies one file inside the workspace that owns it. The
// handle never outlives the workspace.
type FileHandle struct {
	Path        string
	WorkspaceID string
}

// Ext returns the lowercased extension of the handle's path, including the
// leading dot.
func (f FileHandle) Ext() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// Stem returns the base name of the handle's path without its extension.
func (f FileHandle) Stem() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConversionRequest describes one unit of work for the Conversion Invoker.
type ConversionRequest struct {
	Intent IntentKind
	Inputs []FileHandle

	// OutputDir is the workspace directory the engine writes results into.
	// The caller owns the directory and its cleanup.
	OutputDir string
}

// ConversionResult is the tagged outcome of an invocation. Exactly one of
// Outputs or Err is meaningful: a failed result carries Err and no outputs.
type ConversionResult struct {
	Outputs []FileHandle
	Err     error
}

// OK reports whether the conversion succeeded.
func (r ConversionResult) OK() bool {
	return r.Err == nil
}

// Success builds a successful result.
func Success(outputs ...FileHandle) ConversionResult {
	return ConversionResult{Outputs: outputs}
}

// Failure builds a failed result.
func Failure(err error) ConversionResult {
	return ConversionResult{Err: err}
}
