package tools

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/openfleet/opsagent/pkg/store"
)

// countByCategory fans out one count query per enumerated category and joins
// them into a breakdown. The per-category queries run concurrently; the
// first failure cancels the rest and fails the whole breakdown, because a
// partial map would misrepresent totals. The result is merged by category
// label, never by completion order.
func (c *Catalog) countByCategory(ctx context.Context, table, column string, categories []string, base []store.Filter) (map[string]int, error) {
	g, ctx := errgroup.WithContext(ctx)
	counts := make([]int, len(categories))

	for i, category := range categories {
		g.Go(func() error {
			filters := make([]store.Filter, 0, len(base)+1)
			filters = append(filters, base...)
			filters = append(filters, store.Eq(column, category))

			n, err := c.store.Count(ctx, store.Query{Table: table, Filters: filters})
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := make(map[string]int, len(categories))
	for i, category := range categories {
		breakdown[category] = counts[i]
	}
	return breakdown, nil
}
