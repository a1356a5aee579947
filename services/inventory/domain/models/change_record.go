package models

import "time"

// ChangeType classifies a quantity edit.
type ChangeType string

const (
	ChangeInflow  ChangeType = "inflow"
	ChangeOutflow ChangeType = "outflow"
)

// Layouts of the calendar date and local time stamped on a ChangeRecord.
const (
	ChangeDateLayout = "2006-01-02"
	ChangeTimeLayout = "15:04:05"
)

// ChangeRecord is an immutable audit entry for one quantity transition.
// ProductName is a copy taken at write time, not a reference.
type ChangeRecord struct {
	ID              int64
	ProductName     string
	QuantityInitial Quantity
	QuantityFinal   Quantity
	ChangeType      ChangeType
	ChangeDate      string
	ChangeTime      string
	RecordedAt      time.Time // assigned by the store
}

// NewChangeRecord stamps date and time from at (local time of the edit).
func NewChangeRecord(productName string, initial, final Quantity, changeType ChangeType, at time.Time) ChangeRecord {
	return ChangeRecord{
		ProductName:     productName,
		QuantityInitial: initial,
		QuantityFinal:   final,
		ChangeType:      changeType,
		ChangeDate:      at.Format(ChangeDateLayout),
		ChangeTime:      at.Format(ChangeTimeLayout),
	}
}
