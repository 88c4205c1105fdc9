package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/BMS-SchedulingService/internal/api/middleware"
	updateBooking "github.com/m04kA/BMS-SchedulingService/internal/usecase/update_booking"
)

const (
	msgMissingBusinessID  = "идентификатор бизнеса не найден в контексте запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTimeNotAvailable   = "time is not available"
	msgBusinessNotFound   = "бизнес не найден"
	msgBookingNotFound    = "бронирование не найдено"
	msgStaffNotFound      = "сотрудник не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotQualified  = "сотрудник не оказывает эту услугу"
	msgNotEditable        = "бронирование больше нельзя изменить"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgCancelViaUpdate    = "отмена выполняется через операцию отмены бронирования"
	msgDurationNotAllowed = "длительность услуги нарушает политику бронирования"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing business ID in context")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID, bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrTimeNotAvailable):
			h.logger.Warn("PATCH /bookings/{id} - Time not available: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgTimeNotAvailable)

		case errors.Is(err, updateBooking.ErrBusinessNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateBooking.ErrStaffNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Staff not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, updateBooking.ErrServiceNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateBooking.ErrStaffNotQualified):
			h.logger.Warn("PATCH /bookings/{id} - Staff not qualified: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, updateBooking.ErrBookingNotEditable):
			h.logger.Warn("PATCH /bookings/{id} - Booking not editable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotEditable)

		case errors.Is(err, updateBooking.ErrInvalidStatusTransition):
			h.logger.Warn("PATCH /bookings/{id} - Invalid status transition: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, updateBooking.ErrCancelViaUpdate):
			h.logger.Warn("PATCH /bookings/{id} - Cancellation requested via update: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgCancelViaUpdate)

		case errors.Is(err, updateBooking.ErrDurationNotAllowed):
			h.logger.Warn("PATCH /bookings/{id} - Duration not allowed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgDurationNotAllowed)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, business_id=%d",
		bookingID, businessID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
