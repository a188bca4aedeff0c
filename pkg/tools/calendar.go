package tools

import (
	"context"

	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

// CalendarEvent is the stable output shape for event listings.
type CalendarEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	EventType string `json:"eventType"`
	Status    string `json:"status"`
	Priority  string `json:"priority,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	DayDate   string `json:"dayDate"`
	Sequence  int    `json:"sequence"`
}

// EventListResult is the output shape of event listing tools.
type EventListResult struct {
	Events []CalendarEvent `json:"events"`
}

func eventFromRow(row store.Row) CalendarEvent {
	return CalendarEvent{
		ID:        rowString(row, "id"),
		Title:     rowString(row, "title"),
		EventType: rowString(row, "event_type"),
		Status:    rowString(row, "status"),
		Priority:  rowString(row, "priority"),
		StartTime: rowTimeString(row, "start_time"),
		EndTime:   rowTimeString(row, "end_time"),
		DayDate:   rowTimeString(row, "day_date"),
		Sequence:  rowInt(row, "sequence"),
	}
}

func (c *Catalog) driverWorkload() toolexec.Definition {
	return toolexec.Definition{
		Name:        "driver-workload",
		Description: "List a driver's calendar events for the last N days (default 7), ordered by day then sequence",
		Parameters: []toolexec.Parameter{
			{Name: "driverId", Type: "string", Description: "Driver identifier", Required: true},
			tenantParam(),
			daysParam(7),
			limitParam(),
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			driverID, _ := argString(args, "driverId")

			rows, err := c.store.Select(ctx, store.Query{
				Table: tableEvents,
				Filters: []store.Filter{
					tenantFilter(c.tenant(args)),
					store.Eq("assigned_driver_id", driverID),
					store.Gte("day_date", c.since(args).Format("2006-01-02")),
				},
				// Same-day events keep a deterministic order through the
				// sequence number.
				OrderBy: []store.Order{{Column: "day_date"}, {Column: "sequence"}},
				Limit:   argIntOr(args, "limit", defaultListLimit),
			})
			if err != nil {
				return nil, err
			}

			events := make([]CalendarEvent, 0, len(rows))
			for _, row := range rows {
				events = append(events, eventFromRow(row))
			}
			return EventListResult{Events: events}, nil
		},
	}
}
