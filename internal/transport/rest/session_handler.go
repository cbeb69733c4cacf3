package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sessionbook/internal/domain"
)

type SessionHandler struct {
	svc domain.SessionService
}

func NewSessionHandler(svc domain.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Index(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.List(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    sessions,
	})
}

func (h *SessionHandler) Show(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	session, err := h.svc.GetByID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			JSONError(w, http.StatusNotFound, "Session not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    session,
	})
}

func (h *SessionHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	session, err := h.svc.Create(r.Context(), req)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusCreated, APIResponse{
		Message: "Session created successfully",
		Data:    session,
	})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	var req domain.SessionSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	session, err := h.svc.Update(r.Context(), req, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			JSONError(w, http.StatusNotFound, "Session not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Session updated successfully",
		Data:    session,
	})
}

func (h *SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			JSONError(w, http.StatusNotFound, "Session not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Session deleted successfully",
	})
}

func (h *SessionHandler) Participate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	userID, ok := parseID(w, r.PathValue("userId"))
	if !ok {
		return
	}

	session, err := h.svc.Participate(r.Context(), sessionID, userID)
	if err != nil {
		writeParticipationError(w, err)
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    session,
	})
}

func (h *SessionHandler) Unparticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	userID, ok := parseID(w, r.PathValue("userId"))
	if !ok {
		return
	}

	session, err := h.svc.Unparticipate(r.Context(), sessionID, userID)
	if err != nil {
		writeParticipationError(w, err)
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    session,
	})
}

func writeParticipationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		JSONError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, domain.ErrUserNotFound):
		JSONError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrAlreadyParticipating):
		JSONError(w, http.StatusBadRequest, "User already participates in this session")
	case errors.Is(err, domain.ErrNotParticipating):
		JSONError(w, http.StatusBadRequest, "User does not participate in this session")
	default:
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// Non-numeric path ids are caught here, before any service call.
func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid identifier")
		return 0, false
	}

	return id, true
}
