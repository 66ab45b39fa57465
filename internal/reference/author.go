package reference

// Author is a normalized author name.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name, or the whole name when no comma was given
}

// Display renders the author as "First Last".
func (a Author) Display() string {
	if a.First == "" {
		return a.Last
	}
	if a.Last == "" {
		return a.First
	}
	return a.First + " " + a.Last
}
