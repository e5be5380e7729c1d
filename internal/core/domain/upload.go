package domain

// Upload is one document received at the batch upload boundary.
type Upload struct {
	Filename string
	Data     []byte
}

// StatePatch is a partial mapping-state update. Nil fields are left
// untouched; present fields replace the stored value (last write wins).
type StatePatch struct {
	ColorMap        map[string]string            `json:"colorMap,omitempty"`
	CodeMap         map[string]string            `json:"codeMap,omitempty"`
	CategoryColors  map[string]string            `json:"categoryColors,omitempty"`
	CatOverride     map[string]string            `json:"catOverride,omitempty"`
	Meta            map[string]map[string]string `json:"meta,omitempty"`
	ExtraCategories []string                     `json:"extraCategories,omitempty"`
}

// Apply merges the patch into a state, replacing whole keys.
func (p StatePatch) Apply(s MappingState) MappingState {
	out := s.Clone()
	if p.ColorMap != nil {
		out.ColorMap = cloneStringMap(p.ColorMap)
	}
	if p.CodeMap != nil {
		out.CodeMap = cloneStringMap(p.CodeMap)
	}
	if p.CategoryColors != nil {
		out.CategoryColors = cloneStringMap(p.CategoryColors)
	}
	if p.CatOverride != nil {
		out.CatOverride = cloneStringMap(p.CatOverride)
	}
	if p.Meta != nil {
		out.Meta = map[string]map[string]string{}
		for k, v := range p.Meta {
			out.Meta[k] = cloneStringMap(v)
		}
	}
	if p.ExtraCategories != nil {
		out.ExtraCategories = append([]string(nil), p.ExtraCategories...)
	}
	return out
}
