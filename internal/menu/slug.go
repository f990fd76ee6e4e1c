package menu

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugBase   = 50
	slugSuffixLen = 10
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SlugBase folds accents, lowercases and collapses every non-alphanumeric
// run into one hyphen, truncated to maxSlugBase.
func SlugBase(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugBase {
		s = strings.TrimRight(s[:maxSlugBase], "-")
	}
	if s == "" {
		return "menu"
	}
	return s
}

// NewSlug appends random hex to SlugBase(name).
func NewSlug(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:slugSuffixLen]
	return SlugBase(name) + "-" + suffix
}
