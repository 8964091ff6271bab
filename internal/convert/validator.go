package convert

import (
	"fmt"
	"strings"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

// imageExts are the upload extensions accepted by the image intents.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
}

// Validate checks an uploaded file's declared extension against the rules
// for the given intent. The match is case-insensitive and extension-based
// only: it is a guard, not a guarantee, so engines still treat malformed
// content as a runtime failure.
func Validate(declaredExt string, kind domain.IntentKind) error {
	ext := strings.ToLower(declaredExt)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	switch kind {
	case domain.IntentPdfToWord, domain.IntentPdfToJpg, domain.IntentCompress:
		if ext != ".pdf" {
			return domain.ValidationError(
				fmt.Sprintf("%s requires a .pdf upload, got %q", kind, ext), nil)
		}
	case domain.IntentDocxToPdf:
		if ext != ".docx" && ext != ".doc" {
			return domain.ValidationError(
				fmt.Sprintf("%s requires a .docx or .doc upload, got %q", kind, ext), nil)
		}
	case domain.IntentJpgToPdf, domain.IntentPngToJpg, domain.IntentJpgToPng:
		if !imageExts[ext] {
			return domain.ValidationError(
				fmt.Sprintf("%s requires an image upload (jpg, jpeg, png, bmp, tiff), got %q", kind, ext), nil)
		}
	case domain.IntentMerge:
		if ext != ".pdf" {
			return domain.ValidationError(
				fmt.Sprintf("only .pdf files can be merged, got %q", ext), nil)
		}
	case domain.IntentNone:
		return domain.NoPendingIntentError()
	default:
		return domain.ValidationError(fmt.Sprintf("unknown intent %d", kind), nil)
	}
	return nil
}
