package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/opsagent/pkg/store"
)

func seedProfiles(mem *store.MemoryStore) {
	mem.Seed(tableProfiles,
		store.Row{"id": "p1", "organization_id": tenantA, "name": "Ada", "role": "driver", "is_active": true, "is_available": true, "vehicle_id": "v1"},
		store.Row{"id": "p2", "organization_id": tenantA, "name": "Ben", "role": "driver", "is_active": true, "is_available": false, "vehicle_id": "v2"},
		store.Row{"id": "p3", "organization_id": tenantA, "name": "Cleo", "role": "driver", "is_active": true, "is_available": true, "vehicle_id": nil},
		store.Row{"id": "p4", "organization_id": tenantA, "name": "Dev", "role": "team-leader", "is_active": true, "is_available": true, "vehicle_id": nil},
		store.Row{"id": "p5", "organization_id": tenantA, "name": "Eve", "role": "driver", "is_active": false, "is_available": true, "vehicle_id": "v3"},
		store.Row{"id": "p6", "organization_id": tenantB, "name": "Zed", "role": "driver", "is_active": true, "is_available": true, "vehicle_id": "v9"},
	)
	mem.Seed(tableVehicles,
		store.Row{"id": "v1", "organization_id": tenantA, "vehicle_type": "van"},
		store.Row{"id": "v2", "organization_id": tenantA, "vehicle_type": "truck"},
		// v3 has no type recorded.
		store.Row{"id": "v3", "organization_id": tenantA, "vehicle_type": nil},
	)
}

func TestDriverCounts(t *testing.T) {
	t.Run("should count drivers by flags", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "drivers-count", map[string]interface{}{"role": "driver"})
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 4}, res.Output)

		res = dispatch(t, exec, "drivers-count", map[string]interface{}{
			"role":     "driver",
			"isActive": true,
		})
		require.True(t, res.Success)
		assert.Equal(t, CountResult{Count: 3}, res.Output)
	})

	t.Run("should count available drivers with fixed filters", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "available-drivers-count", nil)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, CountResult{Count: 2}, res.Output)
	})

	t.Run("should break down profiles by role with all roles present", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "profiles-by-role", nil)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, map[string]int{
			"driver":           4,
			"team-leader":      1,
			"customer-support": 0,
			"retail-officer":   0,
			"admin":            0,
		}, res.Output.(BreakdownResult).Breakdown)
	})
}

func TestAvailableDrivers(t *testing.T) {
	t.Run("should list active available drivers only", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "available-drivers", nil)
		require.True(t, res.Success, res.Error)

		out := res.Output.(DriverListResult)
		require.Len(t, out.Drivers, 2)
		assert.Equal(t, "Ada", out.Drivers[0].Name)
		assert.Equal(t, "Cleo", out.Drivers[1].Name)
	})
}

func TestDriverDetails(t *testing.T) {
	t.Run("should return the driver when present", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "driver-details", map[string]interface{}{"driverId": "p1"})
		require.True(t, res.Success, res.Error)

		out := res.Output.(DriverDetailsResult)
		require.NotNil(t, out.Driver)
		assert.Equal(t, "Ada", out.Driver.Name)
		assert.Equal(t, "v1", out.Driver.VehicleID)
	})

	t.Run("should return null for an unknown driver without failing", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "driver-details", map[string]interface{}{"driverId": "missing"})
		require.True(t, res.Success, res.Error)
		assert.Nil(t, res.Output.(DriverDetailsResult).Driver)
	})

	t.Run("should not see drivers of another tenant", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "driver-details", map[string]interface{}{"driverId": "p6"})
		require.True(t, res.Success, res.Error)
		assert.Nil(t, res.Output.(DriverDetailsResult).Driver)
	})
}

func TestDriversByVehicleType(t *testing.T) {
	t.Run("should group drivers by resolved vehicle type", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "drivers-by-vehicle-type", nil)
		require.True(t, res.Success, res.Error)

		out := res.Output.(DriversByVehicleResult)
		require.Len(t, out.DriversByVehicle["van"], 1)
		require.Len(t, out.DriversByVehicle["truck"], 1)
		assert.Equal(t, "Ada", out.DriversByVehicle["van"][0].Name)
		assert.Equal(t, "Ben", out.DriversByVehicle["truck"][0].Name)
	})

	t.Run("should default missing vehicle types to unknown", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "drivers-by-vehicle-type", nil)
		require.True(t, res.Success, res.Error)

		out := res.Output.(DriversByVehicleResult)
		require.Len(t, out.DriversByVehicle["unknown"], 1)
		assert.Equal(t, "Eve", out.DriversByVehicle["unknown"][0].Name)
	})

	t.Run("should exclude drivers without a vehicle assignment", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		seedProfiles(mem)

		res := dispatch(t, exec, "drivers-by-vehicle-type", nil)
		require.True(t, res.Success, res.Error)

		for _, drivers := range res.Output.(DriversByVehicleResult).DriversByVehicle {
			for _, d := range drivers {
				assert.NotEqual(t, "Cleo", d.Name)
			}
		}
	})

	t.Run("should return an empty mapping when no driver has a vehicle", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		mem.Seed(tableProfiles,
			store.Row{"id": "p1", "organization_id": tenantA, "name": "Ada", "role": "driver", "vehicle_id": nil},
		)

		res := dispatch(t, exec, "drivers-by-vehicle-type", nil)
		require.True(t, res.Success, res.Error)
		assert.Empty(t, res.Output.(DriversByVehicleResult).DriversByVehicle)
	})
}

func TestDriverWorkload(t *testing.T) {
	t.Run("should order events by day then sequence", func(t *testing.T) {
		_, mem, exec := newTestCatalog(t)
		mem.Seed(tableEvents,
			store.Row{"id": "e1", "organization_id": tenantA, "assigned_driver_id": "p1", "title": "Drop B", "event_type": "delivery", "status": "scheduled", "day_date": "2026-03-14", "sequence": 2},
			store.Row{"id": "e2", "organization_id": tenantA, "assigned_driver_id": "p1", "title": "Drop A", "event_type": "delivery", "status": "scheduled", "day_date": "2026-03-14", "sequence": 1},
			store.Row{"id": "e3", "organization_id": tenantA, "assigned_driver_id": "p1", "title": "Pickup", "event_type": "collection", "status": "scheduled", "day_date": "2026-03-13", "sequence": 5},
			store.Row{"id": "e4", "organization_id": tenantA, "assigned_driver_id": "p2", "title": "Other", "event_type": "delivery", "status": "scheduled", "day_date": "2026-03-14", "sequence": 1},
			store.Row{"id": "e5", "organization_id": tenantA, "assigned_driver_id": "p1", "title": "Stale", "event_type": "delivery", "status": "completed", "day_date": "2026-01-02", "sequence": 1},
		)

		res := dispatch(t, exec, "driver-workload", map[string]interface{}{"driverId": "p1"})
		require.True(t, res.Success, res.Error)

		out := res.Output.(EventListResult)
		require.Len(t, out.Events, 3)
		assert.Equal(t, "Pickup", out.Events[0].Title)
		assert.Equal(t, "Drop A", out.Events[1].Title)
		assert.Equal(t, "Drop B", out.Events[2].Title)
	})

	t.Run("should require driverId", func(t *testing.T) {
		_, _, exec := newTestCatalog(t)

		res := dispatch(t, exec, "driver-workload", nil)
		assert.True(t, res.Validation)
	})
}
