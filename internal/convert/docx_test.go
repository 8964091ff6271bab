package convert

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZipEntry(t *testing.T, path, name string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("entry %s not found in %s", name, path)
	return ""
}

func TestWriteDocx_PackageStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, writeDocx(path, []string{"hello world"}))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "[Content_Types].xml")
	assert.Contains(t, names, "_rels/.rels")
	assert.Contains(t, names, "word/document.xml")
}

func TestWriteDocx_TextAndPageBreaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, writeDocx(path, []string{"first page", "second page"}))

	doc := readZipEntry(t, path, "word/document.xml")
	assert.Contains(t, doc, "first page")
	assert.Contains(t, doc, "second page")
	assert.Equal(t, 1, strings.Count(doc, `<w:br w:type="page"/>`))
}

func TestWriteDocx_EscapesMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, writeDocx(path, []string{"a < b & c > d"}))

	doc := readZipEntry(t, path, "word/document.xml")
	assert.Contains(t, doc, "a &lt; b &amp; c &gt; d")
	assert.NotContains(t, doc, "a < b")
}
