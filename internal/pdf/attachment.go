// Package pdf inspects a paper PDF attached to an exported note.
package pdf

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiSearchPages is how many leading pages are scanned for a DOI.
const doiSearchPages = 3

// DOI pattern: 10.XXXX/... where XXXX is 4 to 9 digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Info describes an attachment.
type Info struct {
	Name  string // Base name used in the note's pdf link
	Pages int
	DOI   string // First DOI found in the leading pages, if any
}

// Inspect opens the PDF at path, checks that it is readable and looks for a DOI.
func Inspect(path string) (Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info := Info{
		Name:  filepath.Base(path),
		Pages: r.NumPage(),
	}
	if info.Pages == 0 {
		return info, fmt.Errorf("%s has no pages", path)
	}

	for i := 1; i <= min(doiSearchPages, info.Pages); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			info.DOI = doi
			break
		}
	}

	return info, nil
}

// MatchesDOI reports whether the attachment's DOI agrees with doi.
// An attachment without a DOI matches anything.
func (i Info) MatchesDOI(doi string) bool {
	if i.DOI == "" || doi == "" {
		return true
	}
	return NormalizeDOI(i.DOI) == NormalizeDOI(doi)
}

// NormalizeDOI removes resolver prefixes and lowercases for comparison.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
