package handlers

import (
	"net/http"

	"github.com/LaviAzankot/CharityChick/internal/apperror"
	"github.com/LaviAzankot/CharityChick/internal/auth"
	"github.com/LaviAzankot/CharityChick/internal/forms"
	"github.com/LaviAzankot/CharityChick/internal/logging"
	"github.com/LaviAzankot/CharityChick/internal/models"
	"github.com/LaviAzankot/CharityChick/internal/render"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	sessions *auth.Manager
	render   *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *auth.Manager, render *render.Renderer) *AuthHandler {
	return &AuthHandler{sessions: sessions, render: render}
}

// Register handles GET/POST /register. A successful registration behaves as
// if login succeeded: the new user walks away with a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Already logged in, nothing to register.
	if auth.UserFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		data := baseData(r)
		// Prefill the password field with a generated suggestion.
		data["SuggestedPassword"] = auth.GeneratePassword(8)
		h.render.HTML(w, http.StatusOK, "register.html", data)
		return
	}

	form, fieldErrors := forms.DecodeRegister(r)
	if len(fieldErrors) > 0 {
		data := baseData(r)
		data["Form"] = form
		data["FieldErrors"] = fieldErrors
		// Keep whatever the user typed instead of a fresh suggestion.
		data["SuggestedPassword"] = form.Password
		h.render.HTML(w, http.StatusBadRequest, "register.html", data)
		return
	}

	user := &models.User{
		Name:       form.Name,
		Email:      form.Email,
		Area:       form.Area,
		Address:    form.Address,
		AddressURL: form.AddressURL,
	}
	session, err := h.sessions.Register(user, form.Password)
	if apperror.IsDuplicateUser(err) {
		redirectWithError(w, r, "/login", "You've already signed up with that email, log in instead!")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("email", form.Email).Msg("registration failed")
		redirectWithError(w, r, "/register", "Registration failed, please try again.")
		return
	}

	auth.SetSessionCookie(w, session)
	logging.Info().Str("email", user.Email).Int("user_id", user.ID).Msg("user registered")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Login handles GET/POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if auth.UserFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render.HTML(w, http.StatusOK, "login.html", baseData(r))
		return
	}

	form, fieldErrors := forms.DecodeLogin(r)
	if len(fieldErrors) > 0 {
		data := baseData(r)
		data["Form"] = form
		data["FieldErrors"] = fieldErrors
		h.render.HTML(w, http.StatusBadRequest, "login.html", data)
		return
	}

	user, session, err := h.sessions.Login(form.Email, form.Password)
	if apperror.IsUnknownUser(err) {
		redirectWithError(w, r, "/register", "This email does not exist, try to sign up instead.")
		return
	}
	if apperror.IsBadCredentials(err) {
		redirectWithError(w, r, "/login", "This password is incorrect, please try again.")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("email", form.Email).Msg("login failed")
		redirectWithError(w, r, "/login", "Login failed, please try again.")
		return
	}

	auth.SetSessionCookie(w, session)
	logging.Info().Str("email", user.Email).Int("user_id", user.ID).Msg("user logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout. From any state it lands on anonymous.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r); err != nil {
		logging.Error().Err(err).Msg("deleting session")
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
