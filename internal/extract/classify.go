package extract

import (
	ahocorasick "github.com/cloudflare/ahocorasick"

	"PriceScanner/internal/taxonomy"
)

// Classifier maps product names onto the shared taxonomy: blacklisted names
// are rejected, otherwise the first category (in declaration order) with a
// matching keyword wins, and everything left lands in the fallback bucket.
// All keywords are folded into one Aho-Corasick automaton so a name is scanned
// once regardless of table size. Immutable after construction; safe for
// concurrent use.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	owners   map[string]keywordOwner
	order    []string
	fallback string
}

type keywordOwner struct {
	blacklisted bool
	categories  map[string]struct{}
}

// NewClassifier compiles the taxonomy keyword tables into a matcher.
func NewClassifier(tax taxonomy.Taxonomy) *Classifier {
	c := &Classifier{
		owners:   make(map[string]keywordOwner),
		fallback: tax.Fallback,
	}

	add := func(keyword string, category string, blacklisted bool) {
		normalized := Normalize(keyword)
		if normalized == "" {
			return
		}
		owner, seen := c.owners[normalized]
		if !seen {
			owner = keywordOwner{categories: make(map[string]struct{})}
			c.patterns = append(c.patterns, normalized)
		}
		if blacklisted {
			owner.blacklisted = true
		}
		if category != "" {
			owner.categories[category] = struct{}{}
		}
		c.owners[normalized] = owner
	}

	for _, keyword := range tax.Blacklist {
		add(keyword, "", true)
	}
	for _, cat := range tax.Categories {
		if len(cat.Keywords) == 0 {
			continue
		}
		c.order = append(c.order, cat.Key)
		for _, keyword := range cat.Keywords {
			add(keyword, cat.Key, false)
		}
	}

	if len(c.patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(c.patterns)
	}
	return c
}

// Classify resolves a product name to a category key. The second return is
// false when the name hit the blacklist: the item must be dropped and never
// reaches downstream stages. Classification is a pure function of the name
// and the taxonomy the classifier was built with.
func (c *Classifier) Classify(name string) (string, bool) {
	matched := make(map[string]struct{})

	if c.matcher != nil {
		text := []byte(Normalize(name))
		for _, hit := range c.matcher.Match(text) {
			if hit >= len(c.patterns) {
				continue
			}
			owner := c.owners[c.patterns[hit]]
			if owner.blacklisted {
				return "", false
			}
			for category := range owner.categories {
				matched[category] = struct{}{}
			}
		}
	}

	for _, key := range c.order {
		if _, ok := matched[key]; ok {
			return key, true
		}
	}
	return c.fallback, true
}
