// Package gate decides whether a session may open a dashboard view.
//
// Every function here is pure and total over the session states
// (absent, user, admin) and the requirements (none, user, admin).
package gate

import (
	"strings"

	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// Requirement is the access level a view demands.
type Requirement int

const (
	// RequireNone admits any authenticated session.
	RequireNone Requirement = iota
	// RequireUser admits any authenticated session; admins are users too.
	RequireUser
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireUser:
		return "user"
	case RequireAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type Outcome string

const (
	Allow    Outcome = "allow"
	Redirect Outcome = "redirect"
	NotFound Outcome = "not-found"
)

// Decision is the result of a navigation check. Target is the view to show
// on Allow and NotFound, and the view to go to on Redirect.
type Decision struct {
	Outcome Outcome    `json:"outcome"`
	Target  model.View `json:"target"`
}

func allow(v model.View) Decision    { return Decision{Outcome: Allow, Target: v} }
func redirect(v model.View) Decision { return Decision{Outcome: Redirect, Target: v} }

var loginView = model.View{Name: model.ViewLogin}

// Authorize checks session against requirement. On Allow the target is
// left empty; Resolve fills it.
func Authorize(session *model.Session, requirement Requirement) Decision {
	if !session.Valid() {
		return redirect(loginView)
	}
	if requirement == RequireAdmin && !session.User.IsAdmin() {
		return redirect(model.HomeView(session.User.Role))
	}
	return Decision{Outcome: Allow}
}

// Root is the decision for "/": the session's home, or login.
func Root(session *model.Session) Decision {
	if !session.Valid() {
		return redirect(loginView)
	}
	return redirect(model.HomeView(session.User.Role))
}

type route struct {
	view        model.ViewName
	requirement Requirement
}

var routes = map[string]route{
	"admin":     {view: model.ViewAdminHome, requirement: RequireAdmin},
	"dashboard": {view: model.ViewUserHome, requirement: RequireNone},
}

// Resolve maps a navigation path to a decision.
//
//	/             -> Root
//	/login        -> always allowed
//	/admin        -> admin only
//	/dashboard    -> any session
//	/vehicle/{id} -> any session
//	anything else -> NotFound
func Resolve(session *model.Session, path string) Decision {
	clean := "/" + strings.Trim(path, "/")
	segments := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	switch {
	case clean == "/":
		return Root(session)
	case clean == "/login":
		return allow(loginView)
	case len(segments) == 2 && segments[0] == "vehicle" && segments[1] != "":
		return guard(session, RequireNone, model.View{Name: model.ViewVehicleDetail, Param: segments[1]})
	case len(segments) == 1:
		if r, ok := routes[segments[0]]; ok {
			return guard(session, r.requirement, model.View{Name: r.view})
		}
	}

	return Decision{Outcome: NotFound, Target: model.View{Name: model.ViewNotFound, Param: path}}
}

func guard(session *model.Session, requirement Requirement, target model.View) Decision {
	d := Authorize(session, requirement)
	if d.Outcome == Allow {
		d.Target = target
	}
	return d
}
