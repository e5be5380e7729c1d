package docx

// walkParagraphs yields every paragraph in the document exactly once, in
// document order: body paragraphs first, then table-cell paragraphs
// (including tables nested inside cells). Deduplication is by structural
// identity, not text equality, so two distinct empty paragraphs are both
// yielded; a cell paragraph reachable via more than one traversal path
// (merged cells) is yielded once.
func walkParagraphs(doc *documentXML) []*paragraphXML {
	if doc == nil || doc.Body == nil {
		return nil
	}

	var out []*paragraphXML
	seen := make(map[*paragraphXML]struct{})

	yield := func(p *paragraphXML) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for i := range doc.Body.Paragraphs {
		yield(&doc.Body.Paragraphs[i])
	}

	var walkTable func(t *tableXML)
	walkTable = func(t *tableXML) {
		for ri := range t.Rows {
			for ci := range t.Rows[ri].Cells {
				cell := &t.Rows[ri].Cells[ci]
				for pi := range cell.Paragraphs {
					yield(&cell.Paragraphs[pi])
				}
				for ti := range cell.Tables {
					walkTable(&cell.Tables[ti])
				}
			}
		}
	}
	for i := range doc.Body.Tables {
		walkTable(&doc.Body.Tables[i])
	}

	return out
}
