package handlers

import (
	"net/http"
	"net/url"

	"github.com/LaviAzankot/CharityChick/internal/auth"
	"github.com/LaviAzankot/CharityChick/internal/models"
)

// redirectWithError redirects carrying a one-shot error message.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// redirectWithSuccess redirects carrying a one-shot success message.
func redirectWithSuccess(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?success="+url.QueryEscape(msg), http.StatusSeeOther)
}

// baseData builds the data context every template starts from: flash
// messages from the query string, login state, and the fixed enumerations
// for the select widgets.
func baseData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"Error":           r.URL.Query().Get("error"),
		"Success":         r.URL.Query().Get("success"),
		"IsAuthenticated": false,
		"Username":        "",
		"Categories":      models.Categories,
		"Areas":           models.Areas,
		"Conditions":      models.Conditions,
	}
	if user := auth.UserFrom(r.Context()); user != nil {
		data["IsAuthenticated"] = true
		data["Username"] = user.Name
	}
	return data
}
