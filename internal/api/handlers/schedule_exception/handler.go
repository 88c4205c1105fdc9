package schedule_exception

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/BMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/BMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	scheduleService "github.com/m04kA/BMS-SchedulingService/internal/service/schedule"
	"github.com/m04kA/BMS-SchedulingService/internal/service/schedule/models"
)

const (
	msgMissingBusinessID  = "идентификатор бизнеса не найден в контексте запроса"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgStaffNotFound      = "сотрудник не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SetExceptionRequest HTTP request model. Пустой список окон означает
// выходной день.
type SetExceptionRequest struct {
	Windows []models.TimeWindowDTO `json:"windows"`
}

// Handle PUT /api/v1/staff/{staffId}/schedule/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, staffID, date, ok := h.parsePath(w, r, "PUT")
	if !ok {
		return
	}

	var req SetExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule/exceptions/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.SetExceptionRequest{
		BusinessID: businessID,
		StaffID:    staffID,
		Date:       date,
		Windows:    req.Windows,
	}

	if err := h.service.SetException(r.Context(), serviceReq); err != nil {
		h.respondServiceError(w, "PUT", staffID, err)
		return
	}

	h.logger.Info("PUT /staff/{id}/schedule/exceptions/{date} - Exception set successfully: staff_id=%d, date=%s",
		staffID, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRemove DELETE /api/v1/staff/{staffId}/schedule/exceptions/{date}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	businessID, staffID, date, ok := h.parsePath(w, r, "DELETE")
	if !ok {
		return
	}

	if err := h.service.RemoveException(r.Context(), businessID, staffID, date); err != nil {
		h.respondServiceError(w, "DELETE", staffID, err)
		return
	}

	h.logger.Info("DELETE /staff/{id}/schedule/exceptions/{date} - Exception removed successfully: staff_id=%d, date=%s",
		staffID, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) parsePath(w http.ResponseWriter, r *http.Request, method string) (businessID, staffID int64, date time.Time, ok bool) {
	businessID, found := middleware.GetBusinessID(r.Context())
	if !found {
		h.logger.Warn("%s /staff/{id}/schedule/exceptions/{date} - Missing business ID in context", method)
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return 0, 0, time.Time{}, false
	}

	vars := mux.Vars(r)
	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /staff/{id}/schedule/exceptions/{date} - Invalid staff ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, 0, time.Time{}, false
	}

	date, err = time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("%s /staff/{id}/schedule/exceptions/{date} - Invalid date: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return 0, 0, time.Time{}, false
	}

	return businessID, staffID, date, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method string, staffID int64, err error) {
	switch {
	case errors.Is(err, scheduleService.ErrStaffNotFound):
		h.logger.Warn("%s /staff/{id}/schedule/exceptions/{date} - Staff not found: staff_id=%d", method, staffID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, scheduleService.ErrInvalidInput):
		h.logger.Warn("%s /staff/{id}/schedule/exceptions/{date} - Invalid input: %v", method, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s /staff/{id}/schedule/exceptions/{date} - Service error: staff_id=%d, error=%v",
			method, staffID, err)
		handlers.RespondInternalError(w)
	}
}
