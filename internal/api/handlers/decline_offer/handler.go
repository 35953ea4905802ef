package decline_offer

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
	msgOfferNotActive = "предложение недействительно"
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

// Handle POST /api/v1/waitlist/{entryId}/decline
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /waitlist/{id}/decline - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waitlist/{id}/decline - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	entry, err := h.service.DeclineOffer(r.Context(), entryID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("POST /waitlist/{id}/decline - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("POST /waitlist/{id}/decline - Access denied: entry_id=%d, customer_id=%d", entryID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrOfferNotActive):
			h.logger.Warn("POST /waitlist/{id}/decline - Offer not active: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgOfferNotActive)

		default:
			h.logger.Error("POST /waitlist/{id}/decline - Failed: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/{id}/decline - Declined: entry_id=%d, customer_id=%d", entryID, customerID)
	handlers.RespondJSON(w, http.StatusOK, entry)
}
