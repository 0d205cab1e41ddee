package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duxcare/portal/internal/shared/auth"
	"github.com/duxcare/portal/internal/shared/errors"
)

// Handler provides HTTP handlers for the chat module
type Handler struct {
	service *Service
}

// NewHandler creates a new chat handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PatientRoutes registers the patient-facing chat routes. The caller must
// mount them behind patient-role auth; the patient ID comes from the
// session, never from the request.
func (h *Handler) PatientRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/messages", h.SendMessage)
	r.Get("/history", h.History)

	return r
}

// NurseRoutes registers the nurse-facing instruction routes.
func (h *Handler) NurseRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/patients/{name}/instructions", h.SendInstruction)
	r.Get("/patients/{name}/instructions", h.ListInstructions)

	return r
}

// SendMessage relays a patient message to their care agent
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("no session"))
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	resp, err := h.service.SendPatientMessage(r.Context(), sess.PatientID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History returns the patient's conversation formatted for display
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("no session"))
		return
	}

	msgs, err := h.service.History(r.Context(), sess.PatientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// SendInstruction relays a nurse care instruction to a patient's agent
func (h *Handler) SendInstruction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	resp, err := h.service.SendInstruction(r.Context(), chi.URLParam(r, "name"), req.Instruction)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListInstructions returns the instructions recorded for a patient
func (h *Handler) ListInstructions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Instructions(chi.URLParam(r, "name")))
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
