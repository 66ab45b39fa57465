package note

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontMatterDelimiter = "---"
	citeFenceOpen        = "```bibtex\n"
	citeFenceClose       = "\n```"
)

// Payload is a note ready for handoff.
type Payload struct {
	TargetPath     string `json:"file"`
	Content        string `json:"content"`
	DestinationURI string `json:"uri"`
}

// Properties is the note front matter. Field order is the serialized key order.
type Properties struct {
	Title  *string  `yaml:"title"`
	Author []string `yaml:"author"`
	Year   *int     `yaml:"year"`
	Key    string   `yaml:"key"`
	Tags   []string `yaml:"tags"`
}

// NewProperties builds front matter from extracted fields and normalized authors.
func NewProperties(f Fields, authorLinks []string, tags []string) Properties {
	props := Properties{
		Author: authorLinks,
		Year:   f.Year,
		Key:    f.CitationKey,
		Tags:   tags,
	}
	if f.HasTitle {
		title := f.Title
		props.Title = &title
	}
	if props.Author == nil {
		props.Author = []string{}
	}
	if props.Tags == nil {
		props.Tags = []string{}
	}
	return props
}

// FrontMatter serializes props as a block-style YAML document between --- lines.
func FrontMatter(props Properties) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(props); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	buf.WriteString(frontMatterDelimiter)
	return buf.String(), nil
}

// PDFLine is the pdf property line; an empty attachment leaves it for the user to fill.
func PDFLine(attachment string) string {
	if attachment == "" {
		return "pdf: "
	}
	return fmt.Sprintf("pdf: \"[[%s]]\"", attachment)
}

// CiteSection fences the raw BibTeX source.
func CiteSection(raw string) string {
	return "cite:\n" + citeFenceOpen + raw + citeFenceClose
}

// Assemble builds the note content, target path and handoff URI.
func Assemble(cfg Config, f Fields, authorLinks []string, raw, attachment string) (Payload, error) {
	front, err := FrontMatter(NewProperties(f, authorLinks, cfg.Tags))
	if err != nil {
		return Payload{}, err
	}

	content := strings.Join([]string{front, PDFLine(attachment), CiteSection(raw)}, "\n") + "\n\n"
	target := TargetPath(cfg.Folder, f.Title)

	return Payload{
		TargetPath:     target,
		Content:        content,
		DestinationURI: HandoffURI(cfg.Vault, target, content),
	}, nil
}

// TargetPath joins the folder and the sanitized title with '/'.
func TargetPath(folder, title string) string {
	return folder + "/" + SafeName(title)
}
