package delete_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/BMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/BMS-SchedulingService/internal/api/middleware"
	policyService "github.com/m04kA/BMS-SchedulingService/internal/service/policy"
)

const (
	msgMissingBusinessID = "идентификатор бизнеса не найден в контексте запроса"
	msgPolicyNotFound    = "политика бронирования не найдена"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /policy - Missing business ID in context")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	if err := h.service.Delete(r.Context(), businessID); err != nil {
		switch {
		case errors.Is(err, policyService.ErrPolicyNotFound):
			h.logger.Warn("DELETE /policy - Policy not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		default:
			h.logger.Error("DELETE /policy - Failed to delete policy: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /policy - Policy deleted successfully: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
