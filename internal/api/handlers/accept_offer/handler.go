package accept_offer

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
	msgInvalidEntryID     = "некорректный ID записи листа ожидания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует идентификатор пользователя"
	msgNotFound           = "запись листа ожидания не найдена"
	msgForbidden          = "доступ запрещен"
	msgOfferNotActive     = "предложение недействительно"
	msgOfferExpired       = "срок действия предложения истек"
	msgSlotUnavailable    = "слот уже занят, предложение передано следующему в очереди"
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

// Handle POST /api/v1/waitlist/{entryId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /waitlist/{id}/accept - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waitlist/{id}/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AcceptOfferRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist/{id}/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AcceptOffer(r.Context(), req.ToServiceRequest(entryID, customerID))
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			h.logger.Warn("POST /waitlist/{id}/accept - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("POST /waitlist/{id}/accept - Access denied: entry_id=%d, customer_id=%d", entryID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrOfferExpired):
			h.logger.Warn("POST /waitlist/{id}/accept - Offer expired: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusGone, msgOfferExpired)

		case errors.Is(err, waitlist.ErrOfferNotActive):
			h.logger.Warn("POST /waitlist/{id}/accept - Offer not active: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgOfferNotActive)

		case errors.Is(err, waitlist.ErrSlotUnavailable):
			h.logger.Warn("POST /waitlist/{id}/accept - Slot taken: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist/{id}/accept - Invalid input: entry_id=%d, error=%v", entryID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /waitlist/{id}/accept - Failed: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/{id}/accept - Booked: entry_id=%d, reservation_id=%d",
		entryID, result.ReservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
