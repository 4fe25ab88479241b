package httpapi

import (
	"net/http"

	"marketplace-be/internal/auth"
	"marketplace-be/internal/prefs"
	"marketplace-be/internal/user"
	"marketplace-be/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// login exchanges credentials for an access token, returned in the body
// and as an HttpOnly cookie.
func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, u, err := a.deps.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (a *api) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// register signs up a buyer account.
func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := a.deps.Users.Create(r.Context(), user.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     user.RoleBuyer,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, u)
}

func (a *api) me(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r.Context())
	u, err := a.deps.Users.Get(r.Context(), c.userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (a *api) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := prefs.FromContext(r.Context())
	if !ok {
		writeError(w, r, errNoPreferences)
		return
	}
	out, err := p.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (a *api) putPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := prefs.FromContext(r.Context())
	if !ok {
		writeError(w, r, errNoPreferences)
		return
	}

	var req prefs.Preferences
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.SetLanguage(r.Context(), req.Language); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Language", req.Language)
	utils.WriteJSON(w, http.StatusOK, req)
}

func (a *api) resetPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := prefs.FromContext(r.Context())
	if !ok {
		writeError(w, r, errNoPreferences)
		return
	}
	if err := p.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, prefs.Preferences{Language: prefs.DefaultLanguage})
}
