package profit

import "strings"

// Category is the outcome of classifying one line item.
type Category int

const (
	CategoryUnrecognized Category = iota
	CategoryZeroCost
	CategoryPrimary
	CategoryExtra
)

func (c Category) String() string {
	switch c {
	case CategoryZeroCost:
		return "zero_cost"
	case CategoryPrimary:
		return "primary"
	case CategoryExtra:
		return "extra"
	default:
		return "unrecognized"
	}
}

// PrimaryMatcher identifies the primary product of a product line. A name is
// primary when it contains the brand token or any of the phrases. Both are
// matched against normalized names.
type PrimaryMatcher struct {
	BrandToken string   `json:"brand_token,omitempty" yaml:"brand_token,omitempty"`
	Phrases    []string `json:"phrases,omitempty" yaml:"phrases,omitempty"`
}

func (m PrimaryMatcher) fragments(n *Normalizer) []string {
	var out []string
	if t := n.Normalize(m.BrandToken); t != "" {
		out = append(out, t)
	}
	for _, p := range m.Phrases {
		if p = n.Normalize(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Extra is a chargeable add-on with a per-country unit price.
type Extra struct {
	Key    string             `json:"key" yaml:"key" validate:"required"`
	Prices map[string]float64 `json:"prices" yaml:"prices"`
}

// Classification is what the classifier reports for a name.
type Classification struct {
	Category Category
	ExtraKey string
}

// Rule maps a predicate over a normalized name to a category. Match returns
// the extra key for CategoryExtra rules and "" otherwise.
type Rule struct {
	Category Category
	Match    func(name string) (string, bool)
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the zero-cost, primary, extra rule cascade. Fragments
// are normalized with n (the default normalizer when nil).
func NewClassifier(n *Normalizer, zeroCost []string, primary PrimaryMatcher, extras []Extra) *Classifier {
	if n == nil {
		n = defaultNormalizer
	}
	zero := normalizeAll(n, zeroCost)
	prim := primary.fragments(n)

	extraKeys := make([]string, 0, len(extras))
	for _, e := range extras {
		extraKeys = append(extraKeys, n.Normalize(e.Key))
	}

	return NewClassifierFromRules(
		Rule{Category: CategoryZeroCost, Match: containsAnyRule(zero)},
		Rule{Category: CategoryPrimary, Match: containsAnyRule(prim)},
		Rule{Category: CategoryExtra, Match: func(name string) (string, bool) {
			for i, k := range extraKeys {
				if k != "" && strings.Contains(name, k) {
					return extras[i].Key, true
				}
			}
			return "", false
		}},
	)
}

// NewClassifierFromRules builds a classifier from an explicit rule list.
func NewClassifierFromRules(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify reports the category of a normalized line-item name.
func (c *Classifier) Classify(name string) Classification {
	for _, r := range c.rules {
		if key, ok := r.Match(name); ok {
			return Classification{Category: r.Category, ExtraKey: key}
		}
	}
	return Classification{Category: CategoryUnrecognized}
}

func containsAnyRule(fragments []string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		return "", containsAny(name, fragments)
	}
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func normalizeAll(n *Normalizer, in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = n.Normalize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
