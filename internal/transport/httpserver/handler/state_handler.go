// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-search-service/internal/app/service"
	"catalog-search-service/internal/searchconfig"
	"catalog-search-service/internal/searchstate"
	"catalog-search-service/internal/transport/httpserver/dto"
	"catalog-search-service/internal/validator"
)

// overridePrefix marks query parameters that act as merge overrides rather
// than current-state parameters, e.g. override[per_page]=50 or
// override[f][genre]=fiction.
const overridePrefix = "override["

// controlKeys are mutation control parameters that must not leak into the
// search state itself.
var controlKeys = []string{"field", "value", "fq"}

// StateHandler handles search-state HTTP requests.
type StateHandler struct {
	service   *service.StateService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(svc *service.StateService, v *validator.Validator, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// queryValues collects the raw query string into url.Values. Fiber's Queries
// helper collapses repeated keys, which would lose multi-valued facet
// parameters like f[genre][]=a&f[genre][]=b.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})

	return values
}

// stateValues returns the query parameters that form the current state:
// everything except mutation control keys and merge overrides.
func stateValues(c *fiber.Ctx) url.Values {
	values := queryValues(c)
	for _, key := range controlKeys {
		values.Del(key)
	}
	for key := range values {
		if strings.HasPrefix(key, overridePrefix) {
			delete(values, key)
		}
	}

	return values
}

// overrideValues extracts the override[...] parameters with the prefix
// stripped, so override[f][genre] becomes f[genre] and feeds the same
// parser as regular state parameters.
func overrideValues(c *fiber.Ctx) url.Values {
	overrides := url.Values{}
	for key, vals := range queryValues(c) {
		if !strings.HasPrefix(key, overridePrefix) {
			continue
		}
		inner := key[len(overridePrefix):]
		name, rest, ok := strings.Cut(inner, "]")
		if !ok || name == "" {
			continue
		}
		overrides[name+rest] = vals
	}

	return overrides
}

// State handles GET /api/v1/search/state
func (h *StateHandler) State(c *fiber.Ctx) error {
	state := h.service.FromValues(stateValues(c))

	return c.JSON(dto.StateResponse{
		Params:         state.ToMap(),
		Query:          state.Query(),
		Filters:        state.Filters(),
		HasConstraints: state.HasConstraints(),
	})
}

// AddFacet handles GET /api/v1/search/state/add
func (h *StateHandler) AddFacet(c *fiber.Ctx) error {
	return h.mutate(c, h.service.AddFacet)
}

// AddFacetForRedirect handles GET /api/v1/search/state/add-redirect
func (h *StateHandler) AddFacetForRedirect(c *fiber.Ctx) error {
	return h.mutate(c, h.service.AddFacetForRedirect)
}

// RemoveFacet handles GET /api/v1/search/state/remove
func (h *StateHandler) RemoveFacet(c *fiber.Ctx) error {
	return h.mutate(c, h.service.RemoveFacet)
}

// mutate runs the shared parse/validate/mutate flow of the facet endpoints.
func (h *StateHandler) mutate(
	c *fiber.Ctx,
	op func(*searchstate.State, string, any) (*searchstate.State, error),
) error {
	var req dto.FacetMutationRequest
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

	state := h.service.FromValues(stateValues(c))

	next, err := op(state, req.Field, req.ToFacetItem())
	if err != nil {
		if errors.Is(err, searchstate.ErrUnknownFacetField) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: err.Error(),
				Code:  "UNKNOWN_FACET_FIELD",
			})
		}

		h.logger.Error("facet mutation failed", zap.String("field", req.Field), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "facet mutation failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.DerivedResponse{Params: next.ToMap()})
}

// RemoveQuery handles GET /api/v1/search/state/remove-query
func (h *StateHandler) RemoveQuery(c *fiber.Ctx) error {
	state := h.service.FromValues(stateValues(c))

	return c.JSON(dto.DerivedResponse{Params: state.RemoveQuery().ToMap()})
}

// Reset handles GET /api/v1/search/state/reset. The current state comes from
// the plain query parameters and is discarded; the override[...] parameters
// seed the fresh state.
func (h *StateHandler) Reset(c *fiber.Ctx) error {
	state := h.service.FromValues(stateValues(c))
	overrides := h.service.FromValues(overrideValues(c))

	return c.JSON(dto.DerivedResponse{Params: state.Reset(overrides.ToMap()).ToMap()})
}

// ParamsForSearch handles GET /api/v1/search/state/params-for-search. The
// override[...] parameters are merged over the current state.
func (h *StateHandler) ParamsForSearch(c *fiber.Ctx) error {
	state := h.service.FromValues(stateValues(c))
	overrides := h.service.FromValues(overrideValues(c))

	return c.JSON(dto.DerivedResponse{Params: state.ParamsForSearch(overrides.ToMap(), nil)})
}

// DocumentURL handles GET /api/v1/search/document-url
func (h *StateHandler) DocumentURL(c *fiber.Ctx) error {
	var req dto.DocumentURLRequest
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

	opts := map[string]any{}
	if counter := c.Query("counter"); counter != "" {
		opts["counter"] = counter
	}

	doc := searchconfig.Document{ID: req.ID, Type: req.Type}

	return c.JSON(dto.DocumentURLResponse{Target: h.service.URLForDocument(doc, opts)})
}
