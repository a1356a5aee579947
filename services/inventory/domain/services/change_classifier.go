// Package services contains stateless domain services for the inventory
// bounded context. They operate purely on domain types and have no external
// dependencies beyond stdlib and the domain layer.
package services

import "github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"

// Classify reports whether moving from initial to final units is an inflow
// or an outflow. Equal quantities count as inflow.
func Classify(initial, final models.Quantity) models.ChangeType {
	if final < initial {
		return models.ChangeOutflow
	}
	return models.ChangeInflow
}
