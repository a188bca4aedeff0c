package tools

import (
	"context"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

// Order is the stable output shape for order listings.
type Order struct {
	ID              string `json:"id"`
	OrderNumber     string `json:"orderNumber"`
	OrderType       string `json:"orderType"`
	Status          string `json:"status"`
	RecipientName   string `json:"recipientName,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	SiteID          string `json:"siteId,omitempty"`
	ScheduledDate   string `json:"scheduledDate,omitempty"`
	Priority        bool   `json:"priority"`
	CreatedAt       string `json:"createdAt,omitempty"`
}

// OrderListResult is the output shape of every order listing tool.
type OrderListResult struct {
	Orders []Order `json:"orders"`
}

func orderFromRow(row store.Row) Order {
	return Order{
		ID:              rowString(row, "id"),
		OrderNumber:     rowString(row, "order_number"),
		OrderType:       rowString(row, "order_type"),
		Status:          rowString(row, "status"),
		RecipientName:   rowString(row, "recipient_name"),
		DeliveryAddress: rowString(row, "delivery_address"),
		SiteID:          rowString(row, "site_id"),
		ScheduledDate:   rowTimeString(row, "scheduled_date"),
		Priority:        rowBool(row, "priority"),
		CreatedAt:       rowTimeString(row, "created_at"),
	}
}

func (c *Catalog) listOrders(ctx context.Context, filters []store.Filter, limit int) (OrderListResult, error) {
	rows, err := c.store.Select(ctx, store.Query{
		Table:   tableOrders,
		Filters: filters,
		OrderBy: []store.Order{{Column: "created_at", Desc: true}},
		Limit:   limit,
	})
	if err != nil {
		return OrderListResult{}, err
	}

	orders := make([]Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderFromRow(row))
	}
	return OrderListResult{Orders: orders}, nil
}

func (c *Catalog) ordersCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "orders-count-last-n-days",
		Description: "Get the number of orders created in the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
			{Name: "orderType", Type: "string", Description: "Optional order type filter", Enum: orderTypes},
			statusParam("Optional order status filter", orderStatuses),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			if orderType, ok := argString(args, "orderType"); ok {
				filters = append(filters, store.Eq("order_type", orderType))
			}
			if status, ok := argString(args, "status"); ok {
				filters = append(filters, store.Eq("status", status))
			}

			n, err := c.store.Count(ctx, store.Query{Table: tableOrders, Filters: filters})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}

func (c *Catalog) ordersByType() toolexec.Definition {
	return toolexec.Definition{
		Name:        "orders-by-type",
		Description: "Get counts of orders grouped by order type for the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			base := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			breakdown, err := c.countByCategory(ctx, tableOrders, "order_type", orderTypes, base)
			if err != nil {
				return nil, err
			}
			return BreakdownResult{Breakdown: breakdown}, nil
		},
	}
}

func (c *Catalog) ordersByStatus() toolexec.Definition {
	return toolexec.Definition{
		Name:        "orders-by-status",
		Description: "Get counts of orders grouped by status for the last N days (default 30)",
		Parameters: []toolexec.Parameter{
			daysParam(30),
			tenantParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			base := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			breakdown, err := c.countByCategory(ctx, tableOrders, "status", orderStatuses, base)
			if err != nil {
				return nil, err
			}
			return BreakdownResult{Breakdown: breakdown}, nil
		},
	}
}

func (c *Catalog) pendingOrders() toolexec.Definition {
	return toolexec.Definition{
		Name:        "pending-orders",
		Description: "List pending orders, newest first",
		Parameters: []toolexec.Parameter{
			tenantParam(),
			limitParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Eq("status", "pending"),
			}
			return c.listOrders(ctx, filters, argIntOr(args, "limit", defaultListLimit))
		},
	}
}

func (c *Catalog) recentOrders() toolexec.Definition {
	return toolexec.Definition{
		Name:        "recent-orders",
		Description: "List orders created in the last N days (default 7), newest first",
		Parameters: []toolexec.Parameter{
			daysParam(7),
			tenantParam(),
			limitParam(),
			statusParam("Optional order status filter", orderStatuses),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Gte("created_at", c.since(args)),
			}
			if status, ok := argString(args, "status"); ok {
				filters = append(filters, store.Eq("status", status))
			}
			return c.listOrders(ctx, filters, argIntOr(args, "limit", defaultListLimit))
		},
	}
}

func (c *Catalog) ordersForSite() toolexec.Definition {
	return toolexec.Definition{
		Name:        "orders-for-site",
		Description: "List orders for a specific site, newest first",
		Parameters: []toolexec.Parameter{
			{Name: "siteId", Type: "string", Description: "Site identifier", Required: true},
			tenantParam(),
			limitParam(),
			statusParam("Optional order status filter", orderStatuses),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			siteID, _ := argString(args, "siteId")
			filters := []store.Filter{
				tenantFilter(c.tenant(args)),
				store.Eq("site_id", siteID),
			}
			if status, ok := argString(args, "status"); ok {
				filters = append(filters, store.Eq("status", status))
			}
			return c.listOrders(ctx, filters, argIntOr(args, "limit", defaultListLimit))
		},
	}
}
