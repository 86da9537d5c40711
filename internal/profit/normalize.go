package profit

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reBracketed = regexp.MustCompile(`\[[^\]]*\]`)
	reNonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
)

// DefaultMisspellings are fixed typo corrections seen in shop exports.
var DefaultMisspellings = map[string]string{
	"deodrant": "deodorant",
}

// Normalizer canonicalizes free-text line-item names for substring matching.
type Normalizer struct {
	misspellings []misspelling
}

// misspelling replaces the word sequence from with to.
type misspelling struct {
	from []string
	to   []string
}

// NewNormalizer builds a normalizer with the given typo substitutions. Keys
// and values are folded like names and matched on whole words. Entries whose
// replacement can feed back into itself (directly or through other entries)
// are dropped; CheckMisspellings reports them.
func NewNormalizer(misspellings map[string]string) *Normalizer {
	pairs := foldMisspellings(misspellings)
	cyclic := cyclicMisspellings(pairs)

	n := &Normalizer{}
	for _, p := range pairs {
		if cyclic[strings.Join(p.from, " ")] {
			continue
		}
		n.misspellings = append(n.misspellings, p)
	}
	return n
}

var defaultNormalizer = NewNormalizer(DefaultMisspellings)

// Normalize applies the default normalizer.
func Normalize(s string) string {
	return defaultNormalizer.Normalize(s)
}

func (n *Normalizer) Normalize(s string) string {
	s = fold(s)
	if s == "" || n == nil || len(n.misspellings) == 0 {
		return s
	}

	words := strings.Fields(s)
	// acyclic entries settle within one round per entry
	for i := 0; i <= len(n.misspellings); i++ {
		changed := false
		for _, m := range n.misspellings {
			var ok bool
			if words, ok = replaceWords(words, m.from, m.to); ok {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return strings.Join(words, " ")
}

// CheckMisspellings rejects substitutions whose replacement contains a word
// sequence that is itself substituted back into it, e.g. "serum" -> "serums
// serum" or "a" -> "b", "b" -> "a".
func CheckMisspellings(misspellings map[string]string) error {
	cyclic := cyclicMisspellings(foldMisspellings(misspellings))
	if len(cyclic) == 0 {
		return nil
	}
	keys := make([]string, 0, len(cyclic))
	for k := range cyclic {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("misspellings %q substitute into each other", keys)
}

// foldMisspellings folds and orders entries, longest key first so the
// application order never depends on map order.
func foldMisspellings(misspellings map[string]string) []misspelling {
	pairs := make([]misspelling, 0, len(misspellings))
	for from, to := range misspellings {
		from, to = fold(from), fold(to)
		if from == "" || from == to {
			continue
		}
		pairs = append(pairs, misspelling{from: strings.Fields(from), to: strings.Fields(to)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := strings.Join(pairs[i].from, " "), strings.Join(pairs[j].from, " ")
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return pairs
}

// cyclicMisspellings returns the keys that can reach themselves: an entry
// leads to another when its replacement can form the other's key.
func cyclicMisspellings(pairs []misspelling) map[string]bool {
	next := make([][]int, len(pairs))
	for i, p := range pairs {
		for j, q := range pairs {
			if canForm(p.to, q.from) {
				next[i] = append(next[i], j)
			}
		}
	}

	cyclic := make(map[string]bool)
	for i := range pairs {
		seen := make([]bool, len(pairs))
		stack := append([]int(nil), next[i]...)
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if j == i {
				cyclic[strings.Join(pairs[i].from, " ")] = true
				break
			}
			if seen[j] {
				continue
			}
			seen[j] = true
			stack = append(stack, next[j]...)
		}
	}
	return cyclic
}

// canForm reports whether substituting to into some text can create a new
// occurrence of key, either inside to or across its edges.
func canForm(to, key []string) bool {
	if len(to) == 0 {
		return len(key) > 1
	}
	if containsWords(to, key) {
		return true
	}
	for k := 1; k < len(key) && k <= len(to); k++ {
		if slices.Equal(key[:k], to[len(to)-k:]) || slices.Equal(key[len(key)-k:], to[:k]) {
			return true
		}
	}
	return false
}

// replaceWords substitutes non-overlapping occurrences of from, scanning left
// to right.
func replaceWords(words, from, to []string) ([]string, bool) {
	if !containsWords(words, from) {
		return words, false
	}
	out := make([]string, 0, len(words)-len(from)+len(to))
	for i := 0; i < len(words); {
		if hasWordsAt(words, from, i) {
			out = append(out, to...)
			i += len(from)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out, true
}

func containsWords(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		if hasWordsAt(words, seq, i) {
			return true
		}
	}
	return false
}

func hasWordsAt(words, seq []string, i int) bool {
	if len(seq) == 0 || i+len(seq) > len(words) {
		return false
	}
	for k, w := range seq {
		if words[i+k] != w {
			return false
		}
	}
	return true
}

// fold strips bracketed annotations, drops diacritics and anything without an
// ASCII base, lower-cases and turns punctuation runs into single spaces.
func fold(s string) string {
	s = reBracketed.ReplaceAllString(s, "")

	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r >= utf8.RuneSelf
	})))
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = strings.Map(func(r rune) rune {
			if r >= utf8.RuneSelf {
				return -1
			}
			return r
		}, s)
	}

	ascii = strings.ToLower(ascii)
	ascii = reNonAlnum.ReplaceAllString(ascii, " ")
	return strings.Join(strings.Fields(ascii), " ")
}
