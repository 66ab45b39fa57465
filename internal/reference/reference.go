// Package reference defines the core domain types for bibliographic records.
package reference

// Record is one parsed BibTeX entry.
type Record struct {
	CitationKey string            `json:"citation_key"` // Opaque key, unique per source document
	EntryType   string            `json:"entry_type"`   // article, inproceedings, ... as written
	Fields      map[string]string `json:"fields"`       // Case-sensitive field name to raw value
}

// Field returns the raw value of a field and whether it was present.
func (r Record) Field(name string) (string, bool) {
	if r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[name]
	return v, ok
}
