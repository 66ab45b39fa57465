package note

// Default note destination and tags.
const DefaultFolder = "Science 🔬/Papers 📜"

// DefaultTags returns the tags attached when none are configured.
func DefaultTags() []string {
	return []string{"paper"}
}

// Config is passed to the pipeline at construction time.
type Config struct {
	Folder string   // Vault-relative folder prefix for new notes
	Tags   []string // Attached to every exported note
	Vault  string   // Optional Obsidian vault name; empty means the active vault
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Folder: DefaultFolder,
		Tags:   DefaultTags(),
	}
}
