package httpapi

import (
	"net/http"
	"slices"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/order"
	"marketplace-be/internal/utils"

	"github.com/gorilla/mux"
)

type reasonRequest struct {
	Reason string `json:"reason"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution"`
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

// orderStatus moves an order along its lifecycle. Sellers may only move
// their own orders.
func (a *api) orderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !slices.Contains(order.Statuses, string(req.Status)) {
		writeError(w, r, crud.NewValidationError("status", "status must be one of the order statuses"))
		return
	}

	if c := callerFrom(r.Context()); !c.isAdmin() {
		o, err := a.deps.Orders.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if o.SellerID != c.sellerID {
			writeError(w, r, crud.ErrNotFound)
			return
		}
	}

	o, err := a.deps.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"order":        o,
		"nextStatuses": order.NextStatuses(o.Status),
	})
}

func (a *api) approveSeller(w http.ResponseWriter, r *http.Request) {
	s, err := a.deps.Sellers.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (a *api) suspendSeller(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := a.deps.Sellers.Suspend(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (a *api) reviewReport(w http.ResponseWriter, r *http.Request) {
	rep, err := a.deps.Reports.Review(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rep)
}

func (a *api) resolveReport(w http.ResponseWriter, r *http.Request) {
	var req resolutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := a.deps.Reports.Resolve(r.Context(), mux.Vars(r)["id"], req.Resolution)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rep)
}

func (a *api) dismissReport(w http.ResponseWriter, r *http.Request) {
	var req resolutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := a.deps.Reports.Dismiss(r.Context(), mux.Vars(r)["id"], req.Resolution)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rep)
}

func (a *api) banUser(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.deps.Users.Ban(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (a *api) unbanUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.deps.Users.Unban(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (a *api) dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := a.deps.Dashboard.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snap)
}
