package cancel_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	"github.com/m04kA/SMC-WaitlistService/internal/api/middleware"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist"
)

const (
	msgInvalidEntryID = "некорректный ID записи листа ожидания"
	msgMissingUserID  = "отсутствует идентификатор пользователя"
	msgNotFound       = "запись листа ожидания не найдена"
	msgForbidden      = "доступ запрещен"
	msgAlreadyClosed  = "запись уже закрыта"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/waitlist/{entryId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /waitlist/{id}/cancel - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /waitlist/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	entry, err := h.service.CancelEntry(r.Context(), entryID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Access denied: entry_id=%d, customer_id=%d", entryID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrInvalidTransition):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Already closed: entry_id=%d", entryID)
			handlers.RespondBadRequest(w, msgAlreadyClosed)

		default:
			h.logger.Error("PATCH /waitlist/{id}/cancel - Failed: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /waitlist/{id}/cancel - Cancelled: entry_id=%d, customer_id=%d", entryID, customerID)
	handlers.RespondJSON(w, http.StatusOK, entry)
}
