package model

import "fmt"

type ViewName string

const (
	ViewLogin         ViewName = "login"
	ViewAdminHome     ViewName = "admin-home"
	ViewUserHome      ViewName = "user-home"
	ViewVehicleDetail ViewName = "vehicle-detail"
	ViewNotFound      ViewName = "not-found"
)

// View is a navigable page of the dashboard.
type View struct {
	Name ViewName `json:"name"`

	// Param is the vehicle id for ViewVehicleDetail and the requested
	// path for ViewNotFound.
	Param string `json:"param,omitempty"`
}

// Path returns the canonical path of the view.
func (v View) Path() string {
	switch v.Name {
	case ViewLogin:
		return "/login"
	case ViewAdminHome:
		return "/admin"
	case ViewUserHome:
		return "/dashboard"
	case ViewVehicleDetail:
		return fmt.Sprintf("/vehicle/%s", v.Param)
	default:
		return v.Param
	}
}

// HomeView is the landing view for role.
func HomeView(role Role) View {
	if role == RoleAdmin {
		return View{Name: ViewAdminHome}
	}
	return View{Name: ViewUserHome}
}
