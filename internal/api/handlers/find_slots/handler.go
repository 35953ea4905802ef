package find_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WaitlistService/internal/api/handlers"
	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
	findSlots "github.com/m04kA/SMC-WaitlistService/internal/usecase/find_slots"
	rankAlternatives "github.com/m04kA/SMC-WaitlistService/internal/usecase/rank_alternatives"
)

const (
	msgInvalidSalonID    = "некорректный ID салона"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidStaffID    = "некорректный ID мастера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime       = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDaysAhead  = "некорректный параметр daysAhead"
	msgInvalidMaxResults = "некорректный параметр maxResults"
	msgSalonNotFound     = "салон не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgStaffNotFound     = "мастер не найден"
	msgNoQualifiedStaff  = "ни один мастер не выполняет эту услугу"
	msgServiceTooLong    = "услуга не помещается в один день"
	msgInvalidRequest    = "некорректные параметры запроса"
)

type Handler struct {
	searchUseCase  FindSlotsUseCase
	rankingUseCase RankAlternativesUseCase
	logger         Logger
}

func NewHandler(searchUseCase FindSlotsUseCase, rankingUseCase RankAlternativesUseCase, logger Logger) *Handler {
	return &Handler{
		searchUseCase:  searchUseCase,
		rankingUseCase: rankingUseCase,
		logger:         logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/services/{serviceId}/available-slots
// Query params: staffId, date (YYYY-MM-DD), time (HH:MM), daysAhead, maxResults - все опциональные
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	params, errMsg := parseQueryParams(r)
	if errMsg != "" {
		h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Bad query params: %s", errMsg)
		handlers.RespondBadRequest(w, errMsg)
		return
	}

	// Поиск не требует аутентификации; CustomerID используется только
	// в логах, если клиент пришел через шлюз
	searchResult, err := h.searchUseCase.Execute(r.Context(), params.ToUseCaseRequest(0, salonID, serviceID))
	if err != nil {
		switch {
		case errors.Is(err, findSlots.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, findSlots.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, findSlots.ErrStaffNotFound):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Staff not found: staff_id=%v", params.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, findSlots.ErrNoQualifiedStaff):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - No qualified staff: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgNoQualifiedStaff)

		case errors.Is(err, findSlots.ErrServiceCrossesMidnight):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Service crosses midnight: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceTooLong)

		case errors.Is(err, findSlots.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/services/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /salons/{id}/services/{id}/available-slots - Search failed: salon_id=%d, service_id=%d, error=%v",
				salonID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Ранжируем найденные слоты по близости к предпочтению клиента
	rankedResult := h.rankingUseCase.Execute(&rankAlternatives.Request{
		Slots:      searchResult.Slots,
		Preference: params.ToPreference(),
	})

	response := FromUseCaseResponses(salonID, serviceID, searchResult, rankedResult)

	h.logger.Info("GET /salons/{id}/services/{id}/available-slots - OK: salon_id=%d, service_id=%d, slots=%d, days=%d, exhausted=%t",
		salonID, serviceID, len(response.Slots), response.SearchedDays, response.Exhausted)
	handlers.RespondJSON(w, http.StatusOK, response)
}

// parseQueryParams разбирает опциональные query параметры.
// Возвращает текст ошибки для ответа 400 при некорректном значении.
func parseQueryParams(r *http.Request) (*queryParams, string) {
	params := &queryParams{}
	query := r.URL.Query()

	if staffIDStr := query.Get("staffId"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil || staffID <= 0 {
			return nil, msgInvalidStaffID
		}
		params.StaffID = &staffID
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, msgInvalidDate
		}
		params.PreferredDate = &date
	}

	if timeStr := query.Get("time"); timeStr != "" {
		preferred, err := types.NewTimeStringFromString(timeStr)
		if err != nil {
			return nil, msgInvalidTime
		}
		params.PreferredTime = &preferred
	}

	if daysStr := query.Get("daysAhead"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			return nil, msgInvalidDaysAhead
		}
		params.DaysAhead = days
	}

	if maxStr := query.Get("maxResults"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return nil, msgInvalidMaxResults
		}
		params.MaxResults = max
	}

	return params, ""
}
