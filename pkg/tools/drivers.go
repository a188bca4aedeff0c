package tools

import (
	"context"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

// Driver is the stable output shape for staff profile listings.
type Driver struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
	IsAvailable bool   `json:"isAvailable"`
	VehicleID   string `json:"vehicleId,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Color       string `json:"color,omitempty"`
}

// DriverListResult is the output shape of driver listing tools.
type DriverListResult struct {
	Drivers []Driver `json:"drivers"`
}

// DriverDetailsResult carries a single driver, or null when the identifier
// does not exist for the tenant.
type DriverDetailsResult struct {
	Driver *Driver `json:"driver"`
}

// DriversByVehicleResult groups drivers by their resolved vehicle type.
type DriversByVehicleResult struct {
	DriversByVehicle map[string][]Driver `json:"driversByVehicle"`
}

func driverFromRow(row store.Row) Driver {
	return Driver{
		ID:          rowString(row, "id"),
		Name:        rowString(row, "name"),
		Email:       rowString(row, "email"),
		Role:        rowString(row, "role"),
		IsActive:    rowBool(row, "is_active"),
		IsAvailable: rowBool(row, "is_available"),
		VehicleID:   rowString(row, "vehicle_id"),
		Phone:       rowString(row, "phone"),
		Color:       rowString(row, "color"),
	}
}

func (c *Catalog) driversCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "drivers-count",
		Description: "Count staff profiles, optionally filtered by role, active and available flags",
		Parameters: []toolexec.Parameter{
			tenantParam(),
			{Name: "role", Type: "string", Description: "Optional role filter", Enum: profileRoles},
			{Name: "isActive", Type: "boolean", Description: "Optional active flag filter"},
			{Name: "isAvailable", Type: "boolean", Description: "Optional available flag filter"},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			filters := []store.Filter{tenantFilter(c.tenant(args))}
			if role, ok := argString(args, "role"); ok {
				filters = append(filters, store.Eq("role", role))
			}
			if active, ok := argBool(args, "isActive"); ok {
				filters = append(filters, store.Eq("is_active", active))
			}
			if available, ok := argBool(args, "isAvailable"); ok {
				filters = append(filters, store.Eq("is_available", available))
			}

			n, err := c.store.Count(ctx, store.Query{Table: tableProfiles, Filters: filters})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}

func (c *Catalog) profilesByRole() toolexec.Definition {
	return toolexec.Definition{
		Name:        "profiles-by-role",
		Description: "Get counts of staff profiles grouped by role",
		Parameters: []toolexec.Parameter{
			tenantParam(),
			{Name: "isActive", Type: "boolean", Description: "Optional active flag filter"},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			base := []store.Filter{tenantFilter(c.tenant(args))}
			if active, ok := argBool(args, "isActive"); ok {
				base = append(base, store.Eq("is_active", active))
			}

			breakdown, err := c.countByCategory(ctx, tableProfiles, "role", profileRoles, base)
			if err != nil {
				return nil, err
			}
			return BreakdownResult{Breakdown: breakdown}, nil
		},
	}
}

func (c *Catalog) availableDriversCount() toolexec.Definition {
	return toolexec.Definition{
		Name:        "available-drivers-count",
		Description: "Count drivers that are both active and available",
		Parameters:  []toolexec.Parameter{tenantParam()},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			n, err := c.store.Count(ctx, store.Query{
				Table: tableProfiles,
				Filters: []store.Filter{
					tenantFilter(c.tenant(args)),
					store.Eq("role", "driver"),
					store.Eq("is_active", true),
					store.Eq("is_available", true),
				},
			})
			if err != nil {
				return nil, err
			}
			return CountResult{Count: n}, nil
		},
	}
}

func (c *Catalog) availableDrivers() toolexec.Definition {
	return toolexec.Definition{
		Name:        "available-drivers",
		Description: "List drivers that are both active and available",
		Parameters: []toolexec.Parameter{
			tenantParam(),
			limitParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			rows, err := c.store.Select(ctx, store.Query{
				Table: tableProfiles,
				Filters: []store.Filter{
					tenantFilter(c.tenant(args)),
					store.Eq("role", "driver"),
					store.Eq("is_active", true),
					store.Eq("is_available", true),
				},
				OrderBy: []store.Order{{Column: "name"}},
				Limit:   argIntOr(args, "limit", defaultListLimit),
			})
			if err != nil {
				return nil, err
			}

			drivers := make([]Driver, 0, len(rows))
			for _, row := range rows {
				drivers = append(drivers, driverFromRow(row))
			}
			return DriverListResult{Drivers: drivers}, nil
		},
	}
}

func (c *Catalog) driverDetails() toolexec.Definition {
	return toolexec.Definition{
		Name:        "driver-details",
		Description: "Fetch one driver profile by identifier; returns null when absent",
		Parameters: []toolexec.Parameter{
			{Name: "driverId", Type: "string", Description: "Driver identifier", Required: true},
			tenantParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			driverID, _ := argString(args, "driverId")
			row, err := c.store.Get(ctx, store.Query{
				Table: tableProfiles,
				Filters: []store.Filter{
					tenantFilter(c.tenant(args)),
					store.Eq("id", driverID),
				},
			})
			if err != nil {
				return nil, err
			}
			if row == nil {
				return DriverDetailsResult{Driver: nil}, nil
			}

			driver := driverFromRow(row)
			return DriverDetailsResult{Driver: &driver}, nil
		},
	}
}

func (c *Catalog) driversByVehicleType() toolexec.Definition {
	return toolexec.Definition{
		Name:        "drivers-by-vehicle-type",
		Description: "Group drivers with assigned vehicles by vehicle type",
		Parameters: []toolexec.Parameter{
			tenantParam(),
			limitParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			tenant := c.tenant(args)

			// First pass: drivers holding a vehicle assignment.
			rows, err := c.store.Select(ctx, store.Query{
				Table: tableProfiles,
				Filters: []store.Filter{
					tenantFilter(tenant),
					store.Eq("role", "driver"),
					store.NotNull("vehicle_id"),
				},
				OrderBy: []store.Order{{Column: "name"}},
				Limit:   argIntOr(args, "limit", defaultListLimit),
			})
			if err != nil {
				return nil, err
			}

			grouped := make(map[string][]Driver)
			if len(rows) == 0 {
				// No assignments is a normal outcome, not an error.
				return DriversByVehicleResult{DriversByVehicle: grouped}, nil
			}

			drivers := make([]Driver, 0, len(rows))
			seen := make(map[string]bool)
			ids := make([]interface{}, 0, len(rows))
			for _, row := range rows {
				d := driverFromRow(row)
				drivers = append(drivers, d)
				if d.VehicleID != "" && !seen[d.VehicleID] {
					seen[d.VehicleID] = true
					ids = append(ids, d.VehicleID)
				}
			}

			// Second pass: one batched vehicle lookup.
			vehicleRows, err := c.store.Select(ctx, store.Query{
				Table:   tableVehicles,
				Columns: []string{"id", "vehicle_type"},
				Filters: []store.Filter{tenantFilter(tenant), store.In("id", ids...)},
			})
			if err != nil {
				return nil, err
			}

			typeByID := make(map[string]string, len(vehicleRows))
			for _, row := range vehicleRows {
				typeByID[rowString(row, "id")] = rowString(row, "vehicle_type")
			}

			for _, d := range drivers {
				vehicleType := typeByID[d.VehicleID]
				if vehicleType == "" {
					vehicleType = "unknown"
				}
				grouped[vehicleType] = append(grouped[vehicleType], d)
			}
			return DriversByVehicleResult{DriversByVehicle: grouped}, nil
		},
	}
}
