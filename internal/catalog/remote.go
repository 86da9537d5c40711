package catalog

import (
	"context"
	"errors"
	"fmt"

	"profitdash/internal/profit"
	"profitdash/pkg/api"
)

// Remote fetches product lines from the catalog service.
type Remote struct {
	client *api.Client
}

func NewRemote(client *api.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Get(ctx context.Context, name string) (profit.ProductLine, error) {
	var line profit.ProductLine
	if err := r.client.GetProductLine(ctx, name, &line); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return profit.ProductLine{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return profit.ProductLine{}, fmt.Errorf("catalog.Remote: %w", err)
	}
	if line.Name == "" {
		line.Name = name
	}
	if err := Validate(line); err != nil {
		return profit.ProductLine{}, err
	}
	return line, nil
}
