package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidfileconvert/convertbot/internal/domain"
)

func TestInvoke_NoInputs(t *testing.T) {
	result := testEngine().Invoke(context.Background(), domain.ConversionRequest{
		Intent: domain.IntentCompress,
	})
	require.Error(t, result.Err)
	assert.False(t, result.OK())
}

func TestMergePDFs_RequiresTwoInputs(t *testing.T) {
	result := testEngine().mergePDFs(context.Background(),
		[]domain.FileHandle{{Path: "only.pdf"}}, t.TempDir())
	require.Error(t, result.Err)
	assert.Equal(t, domain.ErrorTypeInsufficientFiles, domain.TypeOf(result.Err))
}

func TestOfficeToPDF_MissingBinary(t *testing.T) {
	engine := NewEngine(Config{SofficeBinary: "soffice-binary-that-does-not-exist"}, testEngine().logger)
	result := engine.officeToPDF(context.Background(),
		domain.FileHandle{Path: "input.docx"}, t.TempDir())
	require.Error(t, result.Err)
	assert.Equal(t, domain.ErrorTypeBinaryNotFound, domain.TypeOf(result.Err))
}

func TestRunCommand_MissingBinary(t *testing.T) {
	err := runCommand(context.Background(), "no-such-conversion-binary")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeBinaryNotFound, domain.TypeOf(err))
}
