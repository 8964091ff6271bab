package dispatch

import (
	"errors"
	"fmt"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

// User-visible notices. The dispatcher converts every internal outcome into
// exactly one of these; raw errors never reach the chat.
const (
	msgNoPendingIntent = "I received your file — but first please choose what you want me to do. Use /menu or type a command (e.g. 'pdf to word')."
	msgNoMergeSession  = "No merge session found. Click Merge from the menu first."
	msgNeedTwoFiles    = "Please upload at least two PDFs before merging."
	msgMergeSaved      = "📥 PDF saved for merging. Upload more files or press Merge Now in the menu."
	msgMergeOnlyPDF    = "Only PDF files are accepted for merging. Please upload PDFs."
	msgBusy            = "⏳ A conversion is already in progress. Please wait for it to finish."
	msgPagesDone       = "✅ Done — sent all page images."
	msgCancelled       = "Action cancelled."
	msgCancelInFlight  = "Cancelling — the running conversion will be discarded once it finishes."
	msgNothingToCancel = "Nothing to cancel."
	msgInternal        = "Something went wrong on my side. Please try again."
	msgTimeout         = "Conversion timed out. Please try a smaller file."
)

func tooLargeNotice(maxMB int64) string {
	return fmt.Sprintf("File too large. Max allowed is %d MB.", maxMB)
}

func intentPrompt(kind domain.IntentKind) string {
	switch kind {
	case domain.IntentPdfToWord:
		return "PDF → Word selected. Please upload the PDF (send as a document)."
	case domain.IntentDocxToPdf:
		return "Word → PDF selected. Please upload the DOCX (send as a document)."
	case domain.IntentPdfToJpg:
		return "PDF → JPG selected. Please upload the PDF (send as a document)."
	case domain.IntentJpgToPdf:
		return "JPG → PDF selected. Please upload the image (photo or document)."
	case domain.IntentPngToJpg:
		return "PNG → JPG selected. Please upload the PNG image (photo or document)."
	case domain.IntentJpgToPng:
		return "JPG → PNG selected. Please upload the JPG/JPEG image (photo or document)."
	case domain.IntentCompress:
		return "Compress selected. Please upload the PDF (send as a document)."
	case domain.IntentMerge:
		return "📥 Merge selected. Upload PDFs now (send as documents). When ready, press Merge Now."
	default:
		return "✅ OK — please upload the file. I'll convert it and send the result here."
	}
}

func convertingNotice(kind domain.IntentKind) string {
	switch kind {
	case domain.IntentPdfToWord:
		return "⏳ Converting PDF → Word (DOCX)..."
	case domain.IntentDocxToPdf:
		return "⏳ Converting Word → PDF..."
	case domain.IntentPdfToJpg:
		return "⏳ Converting PDF → JPG pages..."
	case domain.IntentJpgToPdf:
		return "⏳ Converting image → PDF..."
	case domain.IntentPngToJpg:
		return "⏳ Converting PNG → JPG..."
	case domain.IntentJpgToPng:
		return "⏳ Converting JPG → PNG..."
	case domain.IntentCompress:
		return "⏳ Compressing PDF..."
	case domain.IntentMerge:
		return "⏳ Merging PDFs..."
	default:
		return "⏳ Converting..."
	}
}

func successCaption(kind domain.IntentKind) string {
	switch kind {
	case domain.IntentPdfToWord:
		return "✅ PDF converted to Word (DOCX)"
	case domain.IntentDocxToPdf:
		return "✅ DOCX converted to PDF"
	case domain.IntentJpgToPdf:
		return "✅ Image converted to PDF"
	case domain.IntentPngToJpg:
		return "✅ PNG converted to JPG"
	case domain.IntentJpgToPng:
		return "✅ JPG converted to PNG"
	case domain.IntentCompress:
		return "✅ Compressed PDF"
	case domain.IntentMerge:
		return "✅ Here is your merged PDF"
	default:
		return "✅ Done"
	}
}

// userMessage maps a domain error to the notice the user sees.
func userMessage(err error) string {
	var de *domain.DomainError
	switch domain.TypeOf(err) {
	case domain.ErrorTypeValidation:
		if errors.As(err, &de) {
			return de.Message
		}
		return "That file type doesn't match the selected action."
	case domain.ErrorTypeNoPendingIntent:
		return msgNoPendingIntent
	case domain.ErrorTypeNoMergeSession:
		return msgNoMergeSession
	case domain.ErrorTypeInsufficientFiles:
		return msgNeedTwoFiles
	case domain.ErrorTypeTimeout:
		return msgTimeout
	case domain.ErrorTypeBinaryNotFound:
		return "This conversion is unavailable right now. Please try again later."
	default:
		if errors.As(err, &de) {
			return fmt.Sprintf("Conversion failed: %s", de.Message)
		}
		return fmt.Sprintf("Conversion failed: %v", err)
	}
}
