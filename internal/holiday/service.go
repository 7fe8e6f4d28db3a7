package holiday

import (
	"context"
	"net/http"

	"github.com/noah-isme/backend-lapak/internal/common"
)

// Service returns the next few upcoming holidays from the configured provider.
type Service struct {
	Provider Provider
	Country  string
	Count    int
}

// Next returns the upcoming holidays, capped at the configured count.
func (s Service) Next(ctx context.Context) ([]Holiday, error) {
	holidays, err := s.Provider.NextPublicHolidays(ctx, s.Country)
	if err != nil {
		return nil, err
	}
	count := s.Count
	if count <= 0 {
		count = 3
	}
	if len(holidays) > count {
		holidays = holidays[:count]
	}
	return holidays, nil
}

// Handler exposes the holidays endpoint.
type Handler struct {
	Svc Service
}

// Next handles GET /api/v1/holidays/next.
func (h Handler) Next(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Svc.Next(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "UPSTREAM", "holiday feed unavailable", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": holidays})
}
