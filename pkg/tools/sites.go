package tools

import (
	"context"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

func (c *Catalog) sitesCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "sites-count",
		Description: "Get the total number of sites for a tenant",
		Parameters:  []toolexec.Parameter{tenantParam()},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			n, err := c.store.Count(ctx, store.Query{
				Table:   tableSites,
				Filters: []store.Filter{tenantFilter(c.tenant(args))},
			})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}

func (c *Catalog) sitesByRegion() toolexec.Definition {
	return toolexec.Definition{
		Name:        "sites-by-region",
		Description: "Get counts of sites grouped by region (north, south, central)",
		Parameters:  []toolexec.Parameter{tenantParam()},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			breakdown, err := c.countByCategory(ctx, tableSites, "region", regions,
				[]store.Filter{tenantFilter(c.tenant(args))})
			if err != nil {
				return nil, err
			}
			return BreakdownResult{Breakdown: breakdown}, nil
		},
	}
}
