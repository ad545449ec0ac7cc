package params

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultDenylist is the fixed list of words masked in display and company names.
var DefaultDenylist = []string{"badword1", "badword2", "badword3"}

// DefaultMask is the rune substituted for every rune of a denylisted word.
const DefaultMask = '*'

// Filter masks whitespace-delimited tokens that match a denylist, ignoring case.
// It is cosmetic guard-railing: punctuation or substitutions bypass it.
type Filter struct {
	fold     cases.Caser
	denylist map[string]struct{}
	mask     rune
}

// NewFilter creates a Filter over the given words.
//
// Parameters:
//   - words: the denylisted tokens
//   - mask: the rune used to mask a match (0 selects DefaultMask)
//
// Returns:
//   - *Filter: the configured filter
func NewFilter(words []string, mask rune) *Filter {
	f := &Filter{
		fold:     cases.Fold(),
		denylist: make(map[string]struct{}, len(words)),
		mask:     mask,
	}
	if f.mask == 0 {
		f.mask = DefaultMask
	}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			f.denylist[f.fold.String(w)] = struct{}{}
		}
	}
	return f
}

// Clean replaces every denylisted token of s by a run of the mask rune of equal rune length.
// Separators are kept as-is, so input without a match is returned unchanged.
//
// Parameters:
//   - s: the text to filter
//
// Returns:
//   - string: the filtered text
func (f *Filter) Clean(s string) string {
	if f == nil || len(f.denylist) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		token := s[start:end]
		if _, ok := f.denylist[f.fold.String(token)]; ok {
			b.WriteString(strings.Repeat(string(f.mask), utf8.RuneCountInString(token)))
		} else {
			b.WriteString(token)
		}
		start = -1
	}

	for i, r := range s {
		if unicode.IsSpace(r) {
			flush(i)
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s))
	return b.String()
}
