package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorPattern  = regexp.MustCompile(`[-_]`)
	disallowedPattern = regexp.MustCompile(`[^a-z0-9가-힣\s]`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// fold lowercases after NFC composition. Casers are stateful, so each call
// gets its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// NormalizeName turns a filename into the form keywords are matched against:
// "2019_Donation-Receipt (1).PDF" becomes "2019 donation receipt 1 pdf".
//
// Names are composed to NFC first. Some filesystems hand back Hangul as
// decomposed jamo, which would otherwise fall outside 가-힣.
func NormalizeName(name string) string {
	s := fold(name)
	s = separatorPattern.ReplaceAllString(s, " ")
	s = disallowedPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type compiledCategory struct {
	name     string
	keywords []string
}

// Classifier maps filenames onto the ordered category table.
type Classifier struct {
	categories []compiledCategory
	other      string
}

// NewClassifier prepares the keyword table of cfg. Keyword order and category
// order are both preserved.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{other: cfg.Other}
	for _, cat := range cfg.Categories {
		cc := compiledCategory{name: cat.Name}
		for _, kw := range cat.Keywords {
			cc.keywords = append(cc.keywords, fold(kw))
		}
		c.categories = append(c.categories, cc)
	}
	return c
}

// Classify returns the first category with a keyword contained in the
// normalized name, or the fallback category when nothing matches.
//
// Matching is plain substring search, so a short keyword can hit inside an
// unrelated word. Table order is the only tie-break.
func (c *Classifier) Classify(name string) string {
	normalized := NormalizeName(name)
	for _, cat := range c.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(normalized, kw) {
				return cat.name
			}
		}
	}
	return c.other
}
