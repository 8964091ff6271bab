package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentRoundTrip(t *testing.T) {
	kinds := []IntentKind{
		IntentPdfToWord, IntentDocxToPdf, IntentPdfToJpg, IntentJpgToPdf,
		IntentPngToJpg, IntentJpgToPng, IntentCompress, IntentMerge,
	}
	for _, k := range kinds {
		assert.Equal(t, k, IntentFromCommand(k.String()))
	}
	assert.Equal(t, IntentNone, IntentFromCommand("start"))
	assert.Equal(t, "none", IntentNone.String())
}

func TestIsImageIntent(t *testing.T) {
	assert.True(t, IntentJpgToPdf.IsImageIntent())
	assert.True(t, IntentPngToJpg.IsImageIntent())
	assert.True(t, IntentJpgToPng.IsImageIntent())
	assert.False(t, IntentPdfToWord.IsImageIntent())
	assert.False(t, IntentMerge.IsImageIntent())
}

func TestFileHandle(t *testing.T) {
	h := FileHandle{Path: "/tmp/ws/Report.V2.PDF"}
	assert.Equal(t, ".pdf", h.Ext())
	assert.Equal(t, "Report.V2", h.Stem())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, TypeOf(ValidationError("bad ext", nil)))

	wrapped := errors.Join(errors.New("outer"), TimeoutError("slow", nil))
	assert.Equal(t, ErrorTypeTimeout, TypeOf(wrapped))

	assert.Equal(t, ErrorTypeEngine, TypeOf(errors.New("plain")))
}
