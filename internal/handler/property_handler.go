package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"realestate/internal/errors"
	"realestate/internal/model"
	"realestate/internal/service"
)

// Listing pagination bounds.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// PropertyHandler handles property endpoints.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// PropertyCreateRequest represents a new listing.
type PropertyCreateRequest struct {
	Title        string               `json:"title" validate:"required"`
	Description  string               `json:"description"`
	Price        decimal.Decimal      `json:"price" swaggertype:"number"`
	Location     string               `json:"location" validate:"required"`
	PropertyType string               `json:"property_type" validate:"required"`
	Bedrooms     int                  `json:"bedrooms" validate:"gte=0"`
	Bathrooms    float64              `json:"bathrooms" validate:"gte=0"`
	Area         float64              `json:"area" validate:"gte=0"`
	Images       []string             `json:"images"`
	Features     []string             `json:"features"`
	Status       model.PropertyStatus `json:"status" validate:"omitempty,oneof=available sold rented pending"`
}

// PropertyUpdateRequest is a partial listing change. Omitted fields are left untouched.
type PropertyUpdateRequest struct {
	Title        *string               `json:"title" validate:"omitempty,min=1"`
	Description  *string               `json:"description"`
	Price        *decimal.Decimal      `json:"price" swaggertype:"number"`
	Location     *string               `json:"location" validate:"omitempty,min=1"`
	PropertyType *string               `json:"property_type" validate:"omitempty,min=1"`
	Bedrooms     *int                  `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *float64              `json:"bathrooms" validate:"omitempty,gte=0"`
	Area         *float64              `json:"area" validate:"omitempty,gte=0"`
	Images       *[]string             `json:"images"`
	Features     *[]string             `json:"features"`
	Status       *model.PropertyStatus `json:"status" validate:"omitempty,oneof=available sold rented pending"`
}

// ListProperties godoc
// @Summary List properties
// @Description Filters apply before skip and limit.
// @Tags properties
// @Produce json
// @Param property_type query string false "Exact property type"
// @Param min_price query number false "Inclusive lower price bound"
// @Param max_price query number false "Inclusive upper price bound"
// @Param location query string false "Case-insensitive location substring"
// @Param skip query int false "Results to skip" default(0) minimum(0)
// @Param limit query int false "Maximum results" default(10) minimum(1) maximum(100)
// @Success 200 {array} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	filter := model.PropertyFilter{
		PropertyType: c.QueryParam("property_type"),
		Location:     c.QueryParam("location"),
	}
	var minPrice, maxPrice string
	skip, limit := 0, DefaultListLimit
	if err := echo.QueryParamsBinder(c).
		String("min_price", &minPrice).
		String("max_price", &maxPrice).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError(); err != nil {
		return validationFailed(err)
	}
	if skip < 0 {
		return badRequest("skip must be >= 0", "VALIDATION_ERROR")
	}
	if limit < 1 || limit > MaxListLimit {
		return badRequest("limit must be between 1 and 100", "VALIDATION_ERROR")
	}

	var err error
	if filter.MinPrice, err = parsePrice(minPrice); err != nil {
		return badRequest("invalid min_price", "VALIDATION_ERROR")
	}
	if filter.MaxPrice, err = parsePrice(maxPrice); err != nil {
		return badRequest("invalid max_price", "VALIDATION_ERROR")
	}

	props, err := h.propertyService.List(c.Request().Context(), filter, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(props))
}

// SearchProperties godoc
// @Summary Free-text property search
// @Description Case-insensitive match against title, description and location.
// @Tags properties
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Router /properties/search [get]
func (h *PropertyHandler) SearchProperties(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return badRequest("q is required", "VALIDATION_ERROR")
	}
	props, err := h.propertyService.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(props))
}

// GetProperty godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} model.Property
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	p, err := h.propertyService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProperty godoc
// @Summary Create a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PropertyCreateRequest true "Property"
// @Success 201 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req PropertyCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Price.IsPositive() {
		return badRequest("price must be greater than 0", "VALIDATION_ERROR")
	}

	p, err := h.propertyService.Create(c.Request().Context(), model.PropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       req.Images,
		Features:     req.Features,
		Status:       req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProperty godoc
// @Summary Partially update a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body PropertyUpdateRequest true "Fields to change"
// @Success 200 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	var req PropertyUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return badRequest("price must be greater than 0", "VALIDATION_ERROR")
	}

	p, err := h.propertyService.Update(c.Request().Context(), c.Param("id"), model.PropertyUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       req.Images,
		Features:     req.Features,
		Status:       req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProperty godoc
// @Summary Delete a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	ok, err := h.propertyService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return respondError(c, errors.ErrNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "property deleted successfully"})
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nonNil(props []model.Property) []model.Property {
	if props == nil {
		return []model.Property{}
	}
	return props
}
