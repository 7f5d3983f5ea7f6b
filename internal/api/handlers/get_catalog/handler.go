package get_catalog

import (
	"net/http"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
)

type Handler struct {
	catalog Catalog
	logger  Logger
}

func NewHandler(catalog Catalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/catalog
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := FromDomain(
		h.catalog.Services(),
		h.catalog.Stylists(),
		h.catalog.Holidays(),
		h.catalog.Location().String(),
	)

	h.logger.Info("GET /catalog - Catalog retrieved: services=%d, stylists=%d", len(resp.Services), len(resp.Stylists))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
