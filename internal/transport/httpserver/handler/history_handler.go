package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-search-service/internal/app/service"
	"catalog-search-service/internal/transport/httpserver/dto"
	"catalog-search-service/internal/validator"
)

// HistoryHandler handles saved-search history HTTP requests.
type HistoryHandler struct {
	service   *service.HistoryService
	validator *validator.Validator
	retention time.Duration
	logger    *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler. retention is the default
// prune horizon when the request does not name one.
func NewHistoryHandler(svc *service.HistoryService, v *validator.Validator, retention time.Duration, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service:   svc,
		validator: v,
		retention: retention,
		logger:    logger,
	}
}

// Save handles POST /api/v1/searches
func (h *HistoryHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	search, err := h.service.Save(c.Context(), req.SessionID, req.Params)
	if err != nil {
		h.logger.Error("save search failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to save search",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromSavedSearch(search))
}

// Recent handles GET /api/v1/searches
func (h *HistoryHandler) Recent(c *fiber.Ctx) error {
	var req dto.RecentSearchesRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	limit := req.Limit
	if limit == 0 {
		limit = service.DefaultRecentLimit
	}

	searches, err := h.service.Recent(c.Context(), req.SessionID, limit)
	if err != nil {
		h.logger.Error("list recent searches failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to list searches",
			Code:  "INTERNAL_ERROR",
		})
	}

	total, err := h.service.Count(c.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("count searches failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to list searches",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromSavedSearches(searches, total))
}

// Prune handles DELETE /api/v1/searches/old
func (h *HistoryHandler) Prune(c *fiber.Ctx) error {
	var req dto.PruneRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	retention := h.retention
	if req.Days > 0 {
		retention = time.Duration(req.Days) * 24 * time.Hour
	}

	deleted, err := h.service.PruneOlderThan(c.Context(), retention)
	if err != nil {
		h.logger.Error("prune searches failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to prune searches",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.PruneResponse{Deleted: deleted})
}
