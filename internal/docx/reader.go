// Package docx extracts highlighted spans and threaded comments from DOCX
// (Office Open XML) documents.
//
// This is not a general DOCX library: it reads exactly the structures the
// annotation engine needs (text runs, highlight attributes, comment
// definitions, comment range markers) and ignores everything else.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/evidenzia-labs/evidenzia-cli/internal/codes"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
)

// Parse extracts highlights, comments and paragraph rows from a DOCX
// document given as raw bytes. Extraction is a pure single pass over the
// in-memory document; it holds no shared state and is safe to run in
// parallel across documents.
//
// A document that cannot be opened as a DOCX container fails with
// domain.ErrInvalidDocument. A missing or malformed comments part is not an
// error: the document degrades to an empty comment list.
func Parse(data []byte, filename string) (domain.Extraction, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %s: opening container: %v", domain.ErrInvalidDocument, filename, err)
	}

	docData, err := readPart(zr, "word/document.xml")
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %s: word/document.xml missing", domain.ErrInvalidDocument, filename)
	}

	var doc documentXML
	if err := decodeXML(docData, &doc); err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %s: parsing document body: %v", domain.ErrInvalidDocument, filename, err)
	}

	ex := domain.Extraction{}

	paras := walkParagraphs(&doc)
	for i, p := range paras {
		paraText := p.text()
		ex.Paragraphs = append(ex.Paragraphs, domain.ParagraphRef{
			Filename:  filename,
			ParaIndex: i,
			Text:      paraText,
		})
		// Whitespace-only paragraphs stay in the paragraph list but
		// cannot anchor highlights.
		if strings.TrimSpace(paraText) == "" {
			continue
		}
		ex.Highlights = append(ex.Highlights, mergeHighlights(filename, i, paraText, p.Runs)...)
	}

	relsData, _ := readPart(zr, "word/_rels/document.xml.rels")
	commentsData, _ := readPart(zr, commentsPartName(relsData))
	metas := parseComments(commentsData)
	quoted := commentRanges(docData)

	for _, m := range metas {
		tokens := codes.Scan(m.Text)
		var first *string
		if len(tokens) > 0 {
			first = &tokens[0]
		}
		ex.Comments = append(ex.Comments, domain.Comment{
			ID:       m.ID,
			Author:   m.Author,
			Date:     m.Date,
			Text:     m.Text,
			Quoted:   quoted[m.ID],
			Filename: filename,
			Code:     first,
			Codes:    tokens,
		})
	}
	sort.SliceStable(ex.Comments, func(i, j int) bool { return ex.Comments[i].ID < ex.Comments[j].ID })

	return ex, nil
}

// readPart returns the content of a named file in the archive.
func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part not found: %s", name)
}

// decodeXML unmarshals an XML part, tolerating non-UTF-8 encodings
// declared in the XML prolog.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}
