package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/BMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/BMS-SchedulingService/internal/api/middleware"
	createBooking "github.com/m04kA/BMS-SchedulingService/internal/usecase/create_booking"
)

const (
	msgMissingBusinessID  = "идентификатор бизнеса не найден в контексте запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTimeNotAvailable   = "time is not available"
	msgBusinessNotFound   = "бизнес не найден"
	msgStaffNotFound      = "сотрудник не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgCustomerNotFound   = "клиент не найден"
	msgStaffNotQualified  = "сотрудник не оказывает эту услугу"
	msgInsufficientSpots  = "недостаточно свободных мест"
	msgDurationNotAllowed = "длительность услуги нарушает политику бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing business ID in context")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrTimeNotAvailable):
			h.logger.Warn("POST /bookings - Time not available: business_id=%d, staff_id=%d", businessID, req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgTimeNotAvailable)

		case errors.Is(err, createBooking.ErrInsufficientSpots):
			h.logger.Warn("POST /bookings - Insufficient spots: business_id=%d, service_id=%d", businessID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgInsufficientSpots)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: business_id=%d, staff_id=%d", businessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrStaffNotQualified):
			h.logger.Warn("POST /bookings - Staff not qualified: business_id=%d, staff_id=%d, service_id=%d",
				businessID, req.StaffID, req.ServiceID)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, createBooking.ErrDurationNotAllowed):
			h.logger.Warn("POST /bookings - Duration not allowed: business_id=%d, service_id=%d", businessID, req.ServiceID)
			handlers.RespondBadRequest(w, msgDurationNotAllowed)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: business_id=%d, staff_id=%d, error=%v",
				businessID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, business_id=%d, staff_id=%d",
		result.ID, businessID, req.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
