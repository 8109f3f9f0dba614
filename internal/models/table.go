package models

import "time"

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	TableStatusFree     TableStatus = "Free"
	TableStatusOccupied TableStatus = "Occupied"
	TableStatusReserved TableStatus = "Reserved"
)

// TableStatuses lists the states a table can be moved between.
var TableStatuses = []TableStatus{TableStatusFree, TableStatusOccupied, TableStatusReserved}

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusFree, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

// Table is a dining table as returned by the remote API.
type Table struct {
	ID              int64       `json:"id"`
	Number          int         `json:"number"`
	Capacity        int         `json:"capacity"`
	Location        *string     `json:"location"`
	Status          TableStatus `json:"status"`
	ActiveOrders    int         `json:"activeOrders,omitempty"`
	HasReservations bool        `json:"hasReservations,omitempty"`
	CreatedAt       *time.Time  `json:"createdAt,omitempty"`
}

// TableRequest is used for table creation.
type TableRequest struct {
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Location *string     `json:"location"`
	Status   TableStatus `json:"status"`
}
