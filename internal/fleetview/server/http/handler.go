package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/service"
	"github.com/autopeer-io/fleetview/pkg/log"
)

const maxBodyBytes = 1 << 16

type handler struct {
	svc *service.Service
}

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createVehicleRequest struct {
	Name           string `json:"name"`
	Number         string `json:"number"`
	AssignedUserID string `json:"assignedUserId"`
}

// vehicleView adds the resolved owner name to a vehicle.
type vehicleView struct {
	model.Vehicle
	OwnerName string `json:"ownerName"`
}

func (h *handler) view(v model.Vehicle) vehicleView {
	return vehicleView{Vehicle: v, OwnerName: h.svc.OwnerName(v)}
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, &req) {
		return
	}

	s, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) session(w http.ResponseWriter, _ *http.Request) {
	s, err := h.svc.Session()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) navigate(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	d := h.svc.Navigate(path)
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": d.Outcome,
		"target":  d.Target,
		"path":    d.Target.Path(),
	})
}

func (h *handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]vehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, h.view(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(*v))
}

func (h *handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if !decode(w, r, &req) {
		return
	}

	v, err := h.svc.CreateVehicle(r.Context(), req.Name, req.Number, req.AssignedUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(*v))
}

func (h *handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	var req model.VehicleUpdate
	if !decode(w, r, &req) {
		return
	}

	v, err := h.svc.UpdateVehicle(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(*v))
}

func (h *handler) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteVehicle(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) vehicleTelemetry(w http.ResponseWriter, r *http.Request) {
	vt, err := h.svc.VehicleTelemetry(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vt)
}

func (h *handler) fleetSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.FleetSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) users(w http.ResponseWriter, _ *http.Request) {
	users, err := h.svc.Users()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials), errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	body := errorBody{Error: err.Error()}

	var verr *core.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		log.Error(err, "Request failed")
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to write response")
	}
}
