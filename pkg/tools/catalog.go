package tools

import (
	"fmt"
	"time"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

// Table names in the operational store.
const (
	tableSites    = "sites"
	tableOrders   = "orders"
	tableDeliv    = "deliveries"
	tableEvents   = "calendar_events"
	tableProfiles = "profiles"
	tableVehicles = "vehicles"
)

// Enumerated category sets. Each set is part of the owning tool's contract;
// breakdowns report every member even at zero.
var (
	regions            = []string{"north", "south", "central"}
	deliveryStatuses   = []string{"pending", "in_progress", "delivered", "failed"}
	collectionStatuses = []string{"scheduled", "in-progress", "completed", "cancelled"}
	orderTypes         = []string{"purchase_order", "purchase_receipt", "sales_order"}
	orderStatuses      = []string{"pending", "scheduled", "in_transit", "delivered", "cancelled"}
	profileRoles       = []string{"driver", "team-leader", "customer-support", "retail-officer", "admin"}
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Catalog builds the tool definitions over a store handle and a default
// tenant. The default tenant is injected configuration, never a literal
// inside a tool body.
type Catalog struct {
	store         store.Querier
	defaultTenant string
	now           func() time.Time
}

// NewCatalog creates a catalog. The default tenant is required: it is the
// tenant every query falls back to when the model omits one.
func NewCatalog(st store.Querier, defaultTenant string) (*Catalog, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if defaultTenant == "" {
		return nil, fmt.Errorf("default tenant is required")
	}
	return &Catalog{store: st, defaultTenant: defaultTenant, now: time.Now}, nil
}

// Definitions returns the full tool catalog in registration order.
func (c *Catalog) Definitions() []toolexec.Definition {
	return []toolexec.Definition{
		c.sitesCount(),
		c.sitesByRegion(),
		c.deliveriesCount(),
		c.deliveriesByStatus(),
		c.collectionsCount(),
		c.ordersCount(),
		c.ordersByType(),
		c.ordersByStatus(),
		c.pendingOrders(),
		c.recentOrders(),
		c.ordersForSite(),
		c.driversCount(),
		c.profilesByRole(),
		c.availableDriversCount(),
		c.availableDrivers(),
		c.driverDetails(),
		c.driversByVehicleType(),
		c.driverWorkload(),
	}
}

// tenant resolves the effective tenant for a call.
func (c *Catalog) tenant(args map[string]interface{}) string {
	if t, ok := argString(args, "tenant"); ok {
		return t
	}
	return c.defaultTenant
}

// since computes the window lower bound for a days argument.
func (c *Catalog) since(args map[string]interface{}) time.Time {
	days := argIntOr(args, "days", 30)
	return c.now().AddDate(0, 0, -days)
}

// tenantFilter is always the first filter of every query.
func tenantFilter(tenant string) store.Filter {
	return store.Eq("organization_id", tenant)
}

// Shared parameter constructors.

func tenantParam() toolexec.Parameter {
	return toolexec.Parameter{
		Name:        "tenant",
		Type:        "string",
		Description: "Tenant identifier; defaults to the configured tenant when omitted",
	}
}

func daysParam(def int) toolexec.Parameter {
	return toolexec.Parameter{
		Name:        "days",
		Type:        "integer",
		Description: fmt.Sprintf("Look-back window in days (default %d)", def),
		Default:     def,
		Minimum:     floatPtr(1),
		Maximum:     floatPtr(90),
	}
}

func limitParam() toolexec.Parameter {
	return toolexec.Parameter{
		Name:        "limit",
		Type:        "integer",
		Description: fmt.Sprintf("Maximum rows to return (default %d, max %d)", defaultListLimit, maxListLimit),
		Default:     defaultListLimit,
		Minimum:     floatPtr(1),
		Maximum:     floatPtr(maxListLimit),
	}
}

func statusParam(desc string, values []string) toolexec.Parameter {
	return toolexec.Parameter{
		Name:        "status",
		Type:        "string",
		Description: desc,
		Enum:        values,
	}
}

func floatPtr(f float64) *float64 { return &f }

// CountResult is the output shape of every scalar count tool.
type CountResult struct {
	Count int `json:"count"`
}

// BreakdownResult is the output shape of every categorical breakdown tool.
type BreakdownResult struct {
	Breakdown map[string]int `json:"breakdown"`
}
