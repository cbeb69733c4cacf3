package rest

import (
	"errors"
	"net/http"

	"sessionbook/internal/domain"
)

type TeacherHandler struct {
	svc domain.TeacherService
}

func NewTeacherHandler(svc domain.TeacherService) *TeacherHandler {
	return &TeacherHandler{svc: svc}
}

func (h *TeacherHandler) Index(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.svc.List(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    teachers,
	})
}

func (h *TeacherHandler) Show(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := parseID(w, r.PathValue("id"))
	if !ok {
		return
	}

	teacher, err := h.svc.GetByID(r.Context(), teacherID)
	if err != nil {
		if errors.Is(err, domain.ErrTeacherNotFound) {
			JSONError(w, http.StatusNotFound, "Teacher not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    teacher,
	})
}
