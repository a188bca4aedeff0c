package tools

import (
	"context"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

func (c *Catalog) deliveriesCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "deliveries-count-last-n-days",
		Description: "Get the number of deliveries created in the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
			statusParam("Optional delivery status filter", deliveryStatuses),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			if status, ok := argString(args, "status"); ok {
				filters = append(filters, store.Eq("status", status))
			}

			n, err := c.store.Count(ctx, store.Query{Table: tableDeliv, Filters: filters})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}

func (c *Catalog) deliveriesByStatus() toolexec.Definition {
	return toolexec.Definition{
		Name:        "deliveries-by-status",
		Description: "Get counts of deliveries grouped by status for the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			base := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			breakdown, err := c.countByCategory(ctx, tableDeliv, "status", deliveryStatuses, base)
			if err != nil {
				return nil, err
			}
			return BreakdownResult{Breakdown: breakdown}, nil
		},
	}
}

func (c *Catalog) collectionsCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "collections-count-last-n-days",
		Description: "Get the number of collection events in the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
			statusParam("Optional collection status filter", collectionStatuses),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			// Collections are calendar events specialized by event type.
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Eq("event_type", "collection"),
				store.Gte("created_at", c.since(args)),
			}
			if status, ok := argString(args, "status"); ok {
				filters = append(filters, store.Eq("status", status))
			}

			n, err := c.store.Count(ctx, store.Query{Table: tableEvents, Filters: filters})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}
