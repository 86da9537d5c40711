// Package catalog resolves product line configurations by name from built-in
// definitions, files, a database or a remote service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"profitdash/internal/profit"
)

// ErrNotFound is returned when no source knows a product line.
var ErrNotFound = errors.New("product line not found")

// Source looks up one product line by name.
type Source interface {
	Get(ctx context.Context, name string) (profit.ProductLine, error)
}

// Static is an in-memory set of product lines.
type Static map[string]profit.ProductLine

// NewStatic indexes lines by lower-cased name.
func NewStatic(lines ...profit.ProductLine) Static {
	s := make(Static, len(lines))
	for _, l := range lines {
		s[key(l.Name)] = l
	}
	return s
}

func (s Static) Get(_ context.Context, name string) (profit.ProductLine, error) {
	l, ok := s[key(name)]
	if !ok {
		return profit.ProductLine{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return l, nil
}

// Names lists the product lines in s, sorted.
func (s Static) Names() []string {
	out := make([]string, 0, len(s))
	for _, l := range s {
		out = append(out, l.Name)
	}
	sort.Strings(out)
	return out
}

// Chain asks each source in order and returns the first hit. Errors other
// than ErrNotFound stop the lookup.
type Chain []Source

func (c Chain) Get(ctx context.Context, name string) (profit.ProductLine, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		line, err := src.Get(ctx, name)
		if err == nil {
			return line, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return profit.ProductLine{}, err
		}
	}
	return profit.ProductLine{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
