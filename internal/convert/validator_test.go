package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

func TestValidate_AcceptTable(t *testing.T) {
	cases := []struct {
		ext  string
		kind domain.IntentKind
	}{
		{".pdf", domain.IntentPdfToWord},
		{".pdf", domain.IntentPdfToJpg},
		{".pdf", domain.IntentCompress},
		{".pdf", domain.IntentMerge},
		{".docx", domain.IntentDocxToPdf},
		{".doc", domain.IntentDocxToPdf},
		{".jpg", domain.IntentJpgToPdf},
		{".jpeg", domain.IntentJpgToPdf},
		{".png", domain.IntentPngToJpg},
		{".bmp", domain.IntentJpgToPng},
		{".tiff", domain.IntentJpgToPng},
	}
	for _, tc := range cases {
		assert.NoError(t, Validate(tc.ext, tc.kind), "ext %s intent %s", tc.ext, tc.kind)
	}
}

func TestValidate_RejectTable(t *testing.T) {
	cases := []struct {
		ext  string
		kind domain.IntentKind
	}{
		{".txt", domain.IntentPdfToWord},
		{".png", domain.IntentMerge},
		{".pdf", domain.IntentDocxToPdf},
		{".docx", domain.IntentCompress},
		{".gif", domain.IntentJpgToPng},
		{"", domain.IntentPdfToJpg},
	}
	for _, tc := range cases {
		err := Validate(tc.ext, tc.kind)
		assert.Error(t, err, "ext %q intent %s", tc.ext, tc.kind)
		assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
	}
}

func TestValidate_CaseInsensitive(t *testing.T) {
	assert.NoError(t, Validate(".PDF", domain.IntentCompress))
	assert.NoError(t, Validate(".PNG", domain.IntentPngToJpg))
}

func TestValidate_MissingDot(t *testing.T) {
	assert.NoError(t, Validate("pdf", domain.IntentCompress))
}

func TestValidate_NoIntent(t *testing.T) {
	err := Validate(".pdf", domain.IntentNone)
	assert.Equal(t, domain.ErrorTypeNoPendingIntent, domain.TypeOf(err))
}
