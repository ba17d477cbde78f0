package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"funpass/entities"
	"funpass/pricing"

	"github.com/labstack/echo/v4"
)

type pricesResponse struct {
	Prices      []entities.PriceEntry `json:"prices"`
	RefreshedAt time.Time             `json:"refreshed_at"`
}

type quoteResponse struct {
	PassType entities.PassType `json:"pass_type"`
	Quantity int               `json:"quantity"`
	Total    entities.Price    `json:"total"`
}

func (h Handler) GetPrices(c echo.Context) error {
	return c.JSON(http.StatusOK, pricesResponse{
		Prices:      h.board.Prices(),
		RefreshedAt: h.board.RefreshedAt(),
	})
}

func (h Handler) GetQuote(c echo.Context) error {
	passType := entities.PassType(c.QueryParam("pass_type"))

	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a number")
	}

	total, err := h.board.Quote(passType, quantity)
	if errors.Is(err, entities.ErrUnknownPassType) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown pass type: "+passType.String())
	} else if errors.Is(err, pricing.ErrInvalidQuantity) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	} else if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, quoteResponse{
		PassType: passType,
		Quantity: quantity,
		Total:    total,
	})
}
