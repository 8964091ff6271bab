package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// writeDocx writes a minimal WordprocessingML package: one paragraph per
// text line, a page break between source pages. Word and LibreOffice both
// open packages with just [Content_Types].xml, _rels/.rels and
// word/document.xml.
func writeDocx(path string, pages []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	entries := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", buildDocumentXML(pages)},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("add %s: %w", entry.name, err)
		}
		if _, err := w.Write([]byte(entry.body)); err != nil {
			return fmt.Errorf("write %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize docx: %w", err)
	}
	return nil
}

func buildDocumentXML(pages []string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for i, page := range pages {
		if i > 0 {
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		}
		for _, line := range strings.Split(page, "\n") {
			b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
			_ = xml.EscapeText(&b, []byte(line)) // never fails on a strings.Builder
			b.WriteString(`</w:t></w:r></w:p>`)
		}
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

const docxContentTypes = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const docxRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`
