package fleet

import "github.com/autopeer-io/fleetview/internal/fleetview/core/model"

// SeedVehicles is the demo fleet the dashboard starts with.
func SeedVehicles() []model.Vehicle {
	return []model.Vehicle{
		{ID: "1", Name: "Tesla Model 3", Number: "MH-12-AB-1234", AssignedUserID: "2", Status: model.VehicleActive},
		{ID: "2", Name: "Ford F-150", Number: "DL-08-CD-5678", AssignedUserID: "2", Status: model.VehicleActive},
		{ID: "3", Name: "Volvo XC90", Number: "KA-03-EF-9012", AssignedUserID: "3", Status: model.VehicleInactive},
	}
}

// SeedUsers is the demo directory of assignable users.
func SeedUsers() []model.DirectoryEntry {
	return []model.DirectoryEntry{
		{ID: "2", Email: "user@fleet.com", Name: "John Doe"},
		{ID: "3", Email: "user2@fleet.com", Name: "Jane Smith"},
	}
}
