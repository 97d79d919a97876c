package get_available_slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	errInvalidDate     = errors.New("invalid date")
	errInvalidDuration = errors.New("invalid durationMinutes")
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StaffID         string          `json:"staffId"`
	Date            string          `json:"date"`
	Timezone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота.
// Start/End в RFC3339 со смещением часового пояса салона, StartTime/EndTime - настенное время HH:MM.
type AvailableSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response, zone *timezone.Zone) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = toAvailableSlot(slot, zone)
	}

	return &AvailableSlotsResponse{
		StaffID:         resp.StaffID.String(),
		Date:            resp.Date.String(),
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

func toAvailableSlot(slot domain.Slot, zone *timezone.Zone) AvailableSlot {
	start := zone.In(slot.Start)
	end := zone.In(slot.End)
	return AvailableSlot{
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
		StartTime: start.Format(domain.TimeFormat),
		EndTime:   end.Format(domain.TimeFormat),
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути и query
func ToUseCaseRequest(staffID, dateStr, durationStr, serviceIDStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := types.ParseLocalDate(strings.TrimSpace(dateStr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	req := &getAvailableSlots.Request{
		StaffID: staffID,
		Date:    date,
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(strings.TrimSpace(durationStr))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidDuration, err)
		}
		req.ServiceDurationMinutes = duration
	}

	if serviceIDStr != "" {
		serviceID := strings.TrimSpace(serviceIDStr)
		req.ServiceID = &serviceID
	}

	return req, nil
}
