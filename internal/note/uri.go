package note

import "strings"

// URIPrefix is the Obsidian "new note" action.
const URIPrefix = "obsidian://new?"

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way JavaScript's encodeURIComponent
// does: only A-Z a-z 0-9 and - _ . ! ~ * ' ( ) are left as is.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// queryParam is one key=value pair of the handoff URI, kept in order.
type queryParam struct {
	key   string
	value string
}

func encodeQuery(params []queryParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, EncodeURIComponent(p.key)+"="+EncodeURIComponent(p.value))
	}
	return strings.Join(parts, "&")
}

// HandoffURI builds obsidian://new?file=...&content=... .
// A non-empty vault is sent first as vault=... .
func HandoffURI(vault, file, content string) string {
	var params []queryParam
	if vault != "" {
		params = append(params, queryParam{"vault", vault})
	}
	params = append(params, queryParam{"file", file}, queryParam{"content", content})
	return URIPrefix + encodeQuery(params)
}
