package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

const (
	tenantA = "11111111-1111-1111-1111-111111111111"
	tenantB = "22222222-2222-2222-2222-222222222222"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) (*Catalog, *store.MemoryStore, *toolexec.Executor) {
	t.Helper()

	mem := store.NewMemoryStore()
	cat, err := NewCatalog(mem, tenantA)
	require.NoError(t, err)
	cat.now = func() time.Time { return fixedNow }

	reg, err := toolexec.NewRegistry(cat.Definitions())
	require.NoError(t, err)

	return cat, mem, toolexec.NewExecutor(reg)
}

func dispatch(t *testing.T, exec *toolexec.Executor, name string, args map[string]interface{}) toolexec.Result {
	t.Helper()
	return exec.Dispatch(context.Background(), toolexec.Request{ID: "req", Name: name, Arguments: args})
}

func TestNewCatalog(t *testing.T) {
	t.Run("should require a default tenant", func(t *testing.T) {
		_, err := NewCatalog(store.NewMemoryStore(), "")
		assert.Error(t, err)
	})

	t.Run("should expose the full tool catalog", func(t *testing.T) {
		cat, err := NewCatalog(store.NewMemoryStore(), tenantA)
		require.NoError(t, err)
		assert.Len(t, cat.Definitions(), 18)
	})
}

func TestSitesTools(t *testing.T) {
	seed := func(mem *store.MemoryStore) {
		mem.Seed(tableSites,
			store.Row{"id": "s1", "organization_id": tenantA, "region": "north"},
			store.Row{"id": "s2", "organization_id": tenantA, "region": "north"},
			store.Row{"id": "s3", "organization_id": tenantA, "region": "central"},
			store.Row{"id": "s4", "organization_id": tenantB, "region": "south"},
		)
	}

	t.Run("should count only the caller's tenant", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "sites-count", nil)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 3}, res.Output)

		res = dispatch(t, exec, "sites-count", map[string]interface{}{"tenant": tenantB})
		require.True(t, res.Success)
		assert.Equal(t, CountResult{Count: 1}, res.Output)
	})

	t.Run("should report every region including zeroes", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "sites-by-region", nil)
		require.True(t, res.Success, res.Error)

		out := res.Output.(BreakdownResult)
		assert.Equal(t, map[string]int{"north": 2, "south": 0, "central": 1}, out.Breakdown)
	})
}

func TestDeliveriesTools(t *testing.T) {
	seed := func(mem *store.MemoryStore) {
		recent := fixedNow.AddDate(0, 0, -3)
		old := fixedNow.AddDate(0, 0, -60)
		mem.Seed(tableDeliv,
			store.Row{"id": "d1", "organization_id": tenantA, "status": "pending", "created_at": recent},
			store.Row{"id": "d2", "organization_id": tenantA, "status": "pending", "created_at": recent},
			store.Row{"id": "d3", "organization_id": tenantA, "status": "pending", "created_at": recent},
			store.Row{"id": "d4", "organization_id": tenantA, "status": "delivered", "created_at": recent},
			store.Row{"id": "d5", "organization_id": tenantA, "status": "delivered", "created_at": recent},
			store.Row{"id": "d6", "organization_id": tenantA, "status": "delivered", "created_at": recent},
			store.Row{"id": "d7", "organization_id": tenantA, "status": "delivered", "created_at": recent},
			store.Row{"id": "d8", "organization_id": tenantA, "status": "delivered", "created_at": recent},
			store.Row{"id": "d9", "organization_id": tenantA, "status": "pending", "created_at": old},
			store.Row{"id": "d10", "organization_id": tenantB, "status": "failed", "created_at": recent},
		)
	}

	t.Run("should break down by status with all categories present", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "deliveries-by-status", map[string]interface{}{"days": 30})
		require.True(t, res.Success, res.Error)

		out := res.Output.(BreakdownResult)
		assert.Equal(t, map[string]int{
			"pending":     3,
			"in_progress": 0,
			"delivered":   5,
			"failed":      0,
		}, out.Breakdown)
	})

	t.Run("should apply the day window and status filter to counts", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "deliveries-count-last-n-days", map[string]interface{}{
			"days":   90,
			"status": "pending",
		})
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 4}, res.Output)
	})

	t.Run("should reject out-of-range day windows before querying", func(t *testing.T) {
		_, _, exec := newTestCatalog(t)

		for _, days := range []int{0, 91} {
			res := dispatch(t, exec, "deliveries-count-last-n-days", map[string]interface{}{"days": days})
			assert.True(t, res.Validation, "days=%d", days)
		}
	})
}

func TestCollectionsCount(t *testing.T) {
	t.Run("should count only collection events", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		recent := fixedNow.AddDate(0, 0, -2)
		mem.Seed(tableEvents,
			store.Row{"id": "e1", "organization_id": tenantA, "event_type": "collection", "status": "scheduled", "created_at": recent},
			store.Row{"id": "e2", "organization_id": tenantA, "event_type": "collection", "status": "completed", "created_at": recent},
			store.Row{"id": "e3", "organization_id": tenantA, "event_type": "delivery", "status": "scheduled", "created_at": recent},
		)

		res := dispatch(t, exec, "collections-count-last-n-days", nil)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 2}, res.Output)

		res = dispatch(t, exec, "collections-count-last-n-days", map[string]interface{}{"status": "completed"})
		require.True(t, res.Success)
		assert.Equal(t, CountResult{Count: 1}, res.Output)
	})
}

func TestOrdersTools(t *testing.T) {
	seed := func(mem *store.MemoryStore) {
		mem.Seed(tableOrders,
			store.Row{
				"id": "o1", "organization_id": tenantA, "order_number": "ORD-001",
				"order_type": "sales_order", "status": "pending", "recipient_name": "North Depot",
				"delivery_address": "1 Harbour Rd", "site_id": "s1", "priority": true,
				"created_at": fixedNow.AddDate(0, 0, -1),
			},
			store.Row{
				"id": "o2", "organization_id": tenantA, "order_number": "ORD-002",
				"order_type": "purchase_order", "status": "pending", "site_id": "s2",
				"priority": false, "created_at": fixedNow.AddDate(0, 0, -2),
			},
			store.Row{
				"id": "o3", "organization_id": tenantA, "order_number": "ORD-003",
				"order_type": "sales_order", "status": "delivered", "site_id": "s1",
				"priority": false, "created_at": fixedNow.AddDate(0, 0, -20),
			},
			store.Row{
				"id": "o4", "organization_id": tenantB, "order_number": "ORD-900",
				"order_type": "sales_order", "status": "pending", "priority": false,
				"created_at": fixedNow,
			},
		)
	}

	t.Run("should list pending orders newest first with stable field names", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "pending-orders", nil)
		require.True(t, res.Success, res.Error)

		out := res.Output.(OrderListResult)
		require.Len(t, out.Orders, 2)
		assert.Equal(t, "ORD-001", out.Orders[0].OrderNumber)
		assert.Equal(t, "ORD-002", out.Orders[1].OrderNumber)
		assert.Equal(t, "1 Harbour Rd", out.Orders[0].DeliveryAddress)
		assert.True(t, out.Orders[0].Priority)
	})

	t.Run("should bound recent orders by the day window", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "recent-orders", nil) // default 7 days
		require.True(t, res.Success, res.Error)
		assert.Len(t, res.Output.(OrderListResult).Orders, 2)

		res = dispatch(t, exec, "recent-orders", map[string]interface{}{"days": 30})
		require.True(t, res.Success)
		assert.Len(t, res.Output.(OrderListResult).Orders, 3)
	})

	t.Run("should require siteId for site listings", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "orders-for-site", nil)
		assert.True(t, res.Validation)

		res = dispatch(t, exec, "orders-for-site", map[string]interface{}{"siteId": "s1"})
		require.True(t, res.Success, res.Error)

		out := res.Output.(OrderListResult)
		require.Len(t, out.Orders, 2)
		assert.Equal(t, "ORD-001", out.Orders[0].OrderNumber)
	})

	t.Run("should break down by type and status", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "orders-by-type", nil)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, map[string]int{
			"purchase_order":   1,
			"purchase_receipt": 0,
			"sales_order":      2,
		}, res.Output.(BreakdownResult).Breakdown)

		res = dispatch(t, exec, "orders-by-status", nil)
		require.True(t, res.Success)
		assert.Equal(t, map[string]int{
			"pending":    2,
			"scheduled":  0,
			"in_transit": 0,
			"delivered":  1,
			"cancelled":  0,
		}, res.Output.(BreakdownResult).Breakdown)
	})

	t.Run("should reject limits outside the allowed range", func(t *testing.T) {
		_, _, exec := newTestCatalog(t)

		for _, limit := range []int{0, 101} {
			res := dispatch(t, exec, "pending-orders", map[string]interface{}{"limit": limit})
			assert.True(t, res.Validation, "limit=%d", limit)
		}
	})

	t.Run("should count orders with combined filters", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seed(mem)

		res := dispatch(t, exec, "orders-count-last-n-days", map[string]interface{}{
			"days":      30,
			"orderType": "sales_order",
			"status":    "pending",
		})
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 1}, res.Output)
	})
}

func TestBreakdownFailFast(t *testing.T) {
	t.Run("should fail the whole breakdown when a category count fails", func(t *testing.T) {
		cat, err := NewCatalog(&failingStore{}, tenantA)
		require.NoError(t, err)

		_, err = cat.countByCategory(context.Background(), tableDeliv, "status", deliveryStatuses, nil)
		require.Error(t, err)

		var qe *store.QueryError
		assert.ErrorAs(t, err, &qe)
	})
}

// failingStore fails every query.
type failingStore struct{}

func (f *failingStore) Count(ctx context.Context, q store.Query) (int, error) {
	return 0, &store.QueryError{Op: "count", Table: q.Table, Err: errors.New("connection reset")}
}

func (f *failingStore) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	return nil, &store.QueryError{Op: "select", Table: q.Table, Err: errors.New("connection reset")}
}

func (f *failingStore) Get(ctx context.Context, q store.Query) (store.Row, error) {
	return nil, &store.QueryError{Op: "get", Table: q.Table, Err: errors.New("connection reset")}
}
