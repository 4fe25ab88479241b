package httpapi

import (
	"net/http"

	"marketplace-be/internal/cart"
	"marketplace-be/internal/order"
	"marketplace-be/internal/payment"
	"marketplace-be/internal/prefs"
	"marketplace-be/internal/session"
	"marketplace-be/internal/utils"

	"github.com/gorilla/mux"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

type placedOrder struct {
	order.Order
	Instructions []string `json:"instructions"`
}

func (a *api) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.deps.Cart.Get(r.Context(), session.IDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (a *api) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c, err := a.deps.Cart.Add(r.Context(), session.IDFrom(r.Context()), req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (a *api) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.deps.Cart.SetQuantity(r.Context(), session.IDFrom(r.Context()), mux.Vars(r)["id"], req.Variant, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (a *api) removeCartItem(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")
	c, err := a.deps.Cart.Remove(r.Context(), session.IDFrom(r.Context()), mux.Vars(r)["id"], variant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (a *api) clearCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.deps.Cart.Clear(r.Context(), session.IDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// checkout places one order per seller and returns each with its payment
// steps in the session language.
func (a *api) checkout(w http.ResponseWriter, r *http.Request) {
	var req cart.CheckoutInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := a.deps.Cart.Checkout(r.Context(), session.IDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	lang := prefs.LanguageFrom(r.Context())
	out := make([]placedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, placedOrder{Order: o, Instructions: payment.ForOrder(o, lang)})
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"orders": out})
}
