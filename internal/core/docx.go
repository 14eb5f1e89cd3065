package core

// docx.go writes a minimal WordprocessingML package: one centered address
// block per business, Heading 2 for the name.

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
		`</Types>`

	docxPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`</Relationships>`

	docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + wordNamespace + `">` +
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/>` +
		`<w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/>` +
		`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
		`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="60"/><w:outlineLvl w:val="1"/></w:pPr>` +
		`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
		`</w:styles>`
)

type docParagraph struct {
	text            string
	style           string
	pageBreakBefore bool
	spaceAfter      int // twentieths of a point
}

func encodeDocument(businesses []Business, pageBreaks bool) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)

	for i, b := range businesses {
		locality := strings.TrimSpace(b.Zipcode + " " + b.City)
		paragraphs := []docParagraph{
			{text: b.Name, style: "Heading2", pageBreakBefore: pageBreaks && i > 0},
			{text: b.StreetName},
			{text: locality, spaceAfter: 240},
		}
		for _, p := range paragraphs {
			if err := writeParagraph(&body, p); err != nil {
				return nil, err
			}
		}
	}
	body.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxPackageRels)},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/styles.xml", []byte(docxStyles)},
		{"word/document.xml", body.Bytes()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close document: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(buf *bytes.Buffer, p docParagraph) error {
	buf.WriteString("<w:p><w:pPr>")
	if p.style != "" {
		fmt.Fprintf(buf, `<w:pStyle w:val="%s"/>`, p.style)
	}
	if p.pageBreakBefore {
		buf.WriteString("<w:pageBreakBefore/>")
	}
	if p.spaceAfter > 0 {
		fmt.Fprintf(buf, `<w:spacing w:after="%d"/>`, p.spaceAfter)
	}
	buf.WriteString(`<w:jc w:val="center"/></w:pPr>`)

	if p.text != "" {
		buf.WriteString(`<w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(buf, []byte(p.text)); err != nil {
			return fmt.Errorf("escape paragraph: %w", err)
		}
		buf.WriteString("</w:t></w:r>")
	}
	buf.WriteString("</w:p>")
	return nil
}
