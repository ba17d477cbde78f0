package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"funpass/entities"
	"funpass/pricing"

	"github.com/labstack/echo/v4"
)

type pricingField struct {
	PassType    entities.PassType `json:"pass_type"`
	RawText     string            `json:"raw_text"`
	ParsedValue *entities.Price   `json:"parsed_value,omitempty"`
	Status      string            `json:"status"`
}

type pricingResponse struct {
	Fields      []pricingField `json:"fields"`
	Dirty       bool           `json:"dirty"`
	LastUpdated time.Time      `json:"last_updated"`
}

type fieldUpdateRequest struct {
	Value string `json:"value"`
}

type fieldUpdateResponse struct {
	PassType entities.PassType `json:"pass_type"`
	Result   string            `json:"result"`
	RawText  string            `json:"raw_text"`
}

func (h Handler) GetPricing(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pricingView())
}

func (h Handler) PutPricingField(c echo.Context) error {
	rawPassType, err := url.PathUnescape(c.Param("pass_type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pass type")
	}
	passType := entities.PassType(rawPassType)

	var request fieldUpdateRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	result, err := h.editor.UpdateField(passType, request.Value)
	if err != nil {
		return pricingError(err)
	}

	response := fieldUpdateResponse{
		PassType: passType,
		Result:   result.String(),
		RawText:  h.fieldText(passType),
	}
	if result == pricing.Invalid {
		return c.JSON(http.StatusUnprocessableEntity, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h Handler) PostPricingCommit(c echo.Context) error {
	if err := h.editor.Commit(c.Request().Context()); err != nil {
		return pricingError(err)
	}

	return c.JSON(http.StatusOK, h.pricingView())
}

func (h Handler) PostPricingReset(c echo.Context) error {
	if err := h.editor.Reset(c.Request().Context()); err != nil {
		return pricingError(err)
	}

	return c.JSON(http.StatusOK, h.pricingView())
}

func (h Handler) PostPricingReload(c echo.Context) error {
	if _, err := h.editor.Load(c.Request().Context()); err != nil {
		return pricingError(err)
	}

	return c.JSON(http.StatusOK, h.pricingView())
}

func (h Handler) pricingView() pricingResponse {
	staged := h.editor.Fields()

	fields := make([]pricingField, 0, len(staged))
	for _, edit := range staged {
		fields = append(fields, pricingField{
			PassType:    edit.PassType,
			RawText:     edit.RawText,
			ParsedValue: edit.Parsed,
			Status:      pricing.Classify(edit.RawText).String(),
		})
	}

	return pricingResponse{
		Fields:      fields,
		Dirty:       h.editor.Dirty(),
		LastUpdated: h.editor.LastUpdated(),
	}
}

func (h Handler) fieldText(passType entities.PassType) string {
	for _, edit := range h.editor.Fields() {
		if edit.PassType == passType {
			return edit.RawText
		}
	}
	return ""
}

func pricingError(err error) error {
	var invalidErr entities.InvalidPriceError
	var storageErr entities.StorageError

	switch {
	case errors.As(err, &invalidErr):
		return echo.NewHTTPError(http.StatusBadRequest, invalidErr.Error())
	case errors.Is(err, entities.ErrUnknownPassType):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrEditorBusy), errors.Is(err, entities.ErrNotLoaded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &storageErr):
		return fmt.Errorf("failed to update prices: %w", err)
	default:
		return err
	}
}
