package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

const (
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration = "длительность услуги должна быть целым числом минут"
	msgMissingDuration = "укажите durationMinutes или serviceId"
	msgBothDuration    = "укажите только один параметр: durationMinutes или serviceId"
	msgInvalidRequest  = "некорректный запрос"
	msgAmbiguousTime   = "расписание мастера попадает на переход на летнее время"
	msgServiceNotFound = "услуга не найдена"
	retryAfterSeconds  = 5
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationMinutes или serviceId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]
	query := r.URL.Query()

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/available-slots - Missing date: staff_id=%s", staffID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := query.Get("durationMinutes")
	serviceIDStr := query.Get("serviceId")
	_, hasDuration := query["durationMinutes"]
	_, hasService := query["serviceId"]

	switch {
	case hasDuration && hasService:
		h.logger.Warn("GET /staff/{id}/available-slots - Both duration and service given: staff_id=%s", staffID)
		handlers.RespondBadRequest(w, msgBothDuration)
		return
	case durationStr == "" && serviceIDStr == "":
		h.logger.Warn("GET /staff/{id}/available-slots - Missing duration and service: staff_id=%s", staffID)
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	// Формируем запрос к use case
	useCaseReq, err := ToUseCaseRequest(staffID, dateStr, durationStr, serviceIDStr)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid query: staff_id=%s, error=%v", staffID, err)
		if errors.Is(err, errInvalidDuration) {
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/available-slots - Invalid request: staff_id=%s, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest+": "+err.Error())

		case errors.Is(err, getAvailableSlots.ErrAmbiguousTime):
			h.logger.Warn("GET /staff/{id}/available-slots - Ambiguous schedule time: staff_id=%s, date=%s, error=%v",
				staffID, dateStr, err)
			handlers.RespondBadRequest(w, msgAmbiguousTime)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /staff/{id}/available-slots - Service not found: service_id=%s", serviceIDStr)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrSourceUnavailable):
			h.logger.Error("GET /staff/{id}/available-slots - Source unavailable: staff_id=%s, date=%s, error=%v",
				staffID, dateStr, err)
			handlers.RespondServiceUnavailable(w, retryAfterSeconds)

		default:
			h.logger.Error("GET /staff/{id}/available-slots - Failed to get slots: staff_id=%s, date=%s, error=%v",
				staffID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result, h.useCase.Timezone())

	h.logger.Info("GET /staff/{id}/available-slots - Slots retrieved successfully: staff_id=%s, date=%s, slots_count=%d",
		staffID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
