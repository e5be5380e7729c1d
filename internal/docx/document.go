package docx

import "encoding/xml"

// XML namespaces used in DOCX parts.
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// relTypeComments is the relationship type suffix identifying the
// comments part in word/_rels/document.xml.rels.
const relTypeComments = "/comments"

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	XMLName xml.Name `xml:"p"`
	Runs    []runXML `xml:"r"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	XMLName    xml.Name    `xml:"r"`
	Properties runPropsXML `xml:"rPr"`
	Text       []textXML   `xml:"t"`
}

// runPropsXML represents run properties (<w:rPr>).
// Only the highlight attribute is read; everything else is ignored.
type runPropsXML struct {
	Highlight *highlightXML `xml:"highlight"`
}

// highlightXML represents a highlight color (<w:highlight>).
type highlightXML struct {
	Val string `xml:"val,attr"` // color name like "yellow", or "none"
}

// textXML represents text content (<w:t>).
type textXML struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Value   string   `xml:",chardata"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>). Cells may contain nested
// tables, so the type recurses.
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// commentsXML represents the structure of the comments part
// (word/comments.xml).
type commentsXML struct {
	XMLName  xml.Name     `xml:"comments"`
	Comments []commentXML `xml:"comment"`
}

// commentXML represents one comment definition (<w:comment>). The body is
// captured raw so text can be gathered from every descendant <w:t>: comments
// may nest tables around their paragraphs.
type commentXML struct {
	ID      string `xml:"id,attr"`
	Author  string `xml:"author,attr"`
	Date    string `xml:"date,attr"`
	Content []byte `xml:",innerxml"`
}

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents one package relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// text concatenates the run's text fragments.
func (r runXML) text() string {
	var s string
	for _, t := range r.Text {
		s += t.Value
	}
	return s
}

// text concatenates the paragraph's run texts.
func (p *paragraphXML) text() string {
	var s string
	for _, r := range p.Runs {
		s += r.text()
	}
	return s
}
