package handlers

import (
	"context"
	"net/http"

	"github.com/LaviAzankot/CharityChick/internal/forms"
	"github.com/LaviAzankot/CharityChick/internal/logging"
	"github.com/LaviAzankot/CharityChick/internal/mail"
	"github.com/LaviAzankot/CharityChick/internal/render"
)

// ContactRelay is the outbound-mail collaborator the contact page blocks on.
type ContactRelay interface {
	SendContact(ctx context.Context, msg mail.ContactMessage) error
}

// PageHandler handles the static about page and the contact form.
type PageHandler struct {
	relay  ContactRelay
	render *render.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(relay ContactRelay, render *render.Renderer) *PageHandler {
	return &PageHandler{relay: relay, render: render}
}

// About handles GET /about.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "about.html", baseData(r))
}

// Contact handles GET/POST /contact. A POST relays the submission to the
// operator and blocks until the relay finishes; a relay failure is rendered
// as a failure state, never reported as success.
func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	data := baseData(r)
	data["MsgSent"] = false

	if r.Method == http.MethodGet {
		h.render.HTML(w, http.StatusOK, "contact.html", data)
		return
	}

	form, fieldErrors := forms.DecodeContact(r)
	if len(fieldErrors) > 0 {
		data["Form"] = form
		data["FieldErrors"] = fieldErrors
		h.render.HTML(w, http.StatusBadRequest, "contact.html", data)
		return
	}

	err := h.relay.SendContact(r.Context(), mail.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Message: form.Message,
	})
	if err != nil {
		logging.Error().Err(err).Str("from", form.Email).Msg("contact relay failed")
		data["Form"] = form
		data["SendFailed"] = true
		h.render.HTML(w, http.StatusBadGateway, "contact.html", data)
		return
	}

	logging.Info().Str("from", form.Email).Msg("contact message relayed")
	data["MsgSent"] = true
	h.render.HTML(w, http.StatusOK, "contact.html", data)
}
