package docx

import (
	"bytes"
	"encoding/xml"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// commentMeta is one comment definition from the comments part.
type commentMeta struct {
	ID     int
	Author string
	Date   string
	Text   string
}

// commentsPartName resolves the comments part name from the document
// relationships, falling back to the conventional word/comments.xml.
func commentsPartName(relsData []byte) string {
	const fallback = "word/comments.xml"
	if relsData == nil {
		return fallback
	}
	var rels relationshipsXML
	if err := decodeXML(relsData, &rels); err != nil {
		return fallback
	}
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, relTypeComments) {
			target := strings.TrimPrefix(rel.Target, "/")
			if strings.HasPrefix(target, "word/") {
				return target
			}
			return path.Join("word", target)
		}
	}
	return fallback
}

// parseComments extracts comment metadata from the comments part. A missing
// or malformed part yields an empty slice, never an error: documents without
// extractable comments degrade to a highlight-only extraction.
func parseComments(data []byte) []commentMeta {
	if data == nil {
		return nil
	}
	var part commentsXML
	if err := decodeXML(data, &part); err != nil {
		return nil
	}

	var out []commentMeta
	for _, c := range part.Comments {
		id, err := strconv.Atoi(strings.TrimSpace(c.ID))
		if err != nil {
			continue
		}
		out = append(out, commentMeta{
			ID:     id,
			Author: c.Author,
			Date:   c.Date,
			Text:   strings.TrimSpace(collectText(c.Content)),
		})
	}
	return out
}

// collectText concatenates every descendant text node (<w:t>) of a comment
// body, however deeply nested.
func collectText(content []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		}
	}
	return b.String()
}

// commentRanges walks the document body with an explicit open-ids stack and
// accumulates the text each comment range covers. Multiple ranges may be
// open at once; overlapping text is attributed to every open id. A range-end
// with no matching start is ignored, and ids whose accumulated text is empty
// after trimming are omitted.
func commentRanges(docData []byte) map[int]string {
	dec := xml.NewDecoder(bytes.NewReader(docData))
	dec.CharsetReader = charset.NewReaderLabel

	var open []int
	acc := make(map[int][]string)
	inText := false

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "commentRangeStart":
				if id, ok := markerID(t); ok {
					open = append(open, id)
					if _, exists := acc[id]; !exists {
						acc[id] = nil
					}
				}
			case "commentRangeEnd":
				if id, ok := markerID(t); ok {
					open = removeID(open, id)
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText && len(open) > 0 {
				text := string(t)
				for _, id := range open {
					acc[id] = append(acc[id], text)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		}
	}

	out := make(map[int]string, len(acc))
	for id, parts := range acc {
		joined := strings.TrimSpace(strings.Join(parts, ""))
		if joined != "" {
			out[id] = joined
		}
	}
	return out
}

// markerID reads the id attribute of a comment range marker.
func markerID(el xml.StartElement) (int, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local == "id" {
			id, err := strconv.Atoi(strings.TrimSpace(attr.Value))
			if err != nil {
				return 0, false
			}
			return id, true
		}
	}
	return 0, false
}

// removeID removes the first occurrence of id. Tolerant of ids that were
// never opened: malformed documents must not break the walk.
func removeID(open []int, id int) []int {
	for i, v := range open {
		if v == id {
			return append(open[:i], open[i+1:]...)
		}
	}
	return open
}
