package reference

import "testing"

func TestAuthorDisplay(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{"first and last", Author{First: "Leslie", Last: "Lamport"}, "Leslie Lamport"},
		{"last only", Author{Last: "Aristotle"}, "Aristotle"},
		{"first only", Author{First: "Plato"}, "Plato"},
		{"empty", Author{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordField(t *testing.T) {
	rec := Record{CitationKey: "k", Fields: map[string]string{"title": "T"}}

	if v, ok := rec.Field("title"); !ok || v != "T" {
		t.Errorf("Field(title) = %q, %v; want \"T\", true", v, ok)
	}
	if _, ok := rec.Field("Title"); ok {
		t.Error("Field lookup should be case-sensitive")
	}
	if _, ok := (Record{}).Field("title"); ok {
		t.Error("Field on nil map should report absent")
	}
}
