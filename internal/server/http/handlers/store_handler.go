package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/server/http/dto"
)

// StoreHandler serves the store catalogue.
type StoreHandler struct {
	facade StoreFacade
	logger *slog.Logger
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(facade StoreFacade, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{facade: facade, logger: logger}
}

// List handles GET /api/stores.
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.facade.Stores(c.Request.Context())
	if err != nil {
		h.logger.Error("list stores failed",
			slog.String("request_id", requestID(c)),
			slog.String("error", err.Error()),
		)
		message(c, http.StatusInternalServerError, msgServerError)
		return
	}

	resp := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		resp = append(resp, dto.StoreResponse{
			ID:         s.ID,
			Name:       s.Name,
			Address:    s.Address,
			Rating:     s.Rating,
			UserRating: s.UserRating,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/stores.
func (h *StoreHandler) Create(c *gin.Context) {
	var req dto.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	store, err := h.facade.CreateStore(c.Request.Context(), model.StoreDraft{
		Name:       req.Name,
		Address:    req.Address,
		Rating:     req.Rating,
		UserRating: req.UserRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMissingField):
			message(c, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, domainErrors.ErrInvalidRating):
			message(c, http.StatusBadRequest, "Ratings must be between 0 and 5")
		default:
			h.logger.Error("create store failed",
				slog.String("request_id", requestID(c)),
				slog.String("error", err.Error()),
			)
			message(c, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.StoreCreatedResponse{Message: "Store added successfully", ID: store.ID})
}
