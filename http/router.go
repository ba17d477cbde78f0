package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	editor PriceEditor,
	board PriceBoard,
) *echo.Echo {
	if editor == nil {
		panic("missing price editor")
	}
	if board == nil {
		panic("missing price board")
	}

	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("funpass-admin"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		editor: editor,
		board:  board,
	}

	e.GET("/prices", handler.GetPrices)
	e.GET("/prices/quote", handler.GetQuote)

	e.GET("/admin/pricing", handler.GetPricing)
	e.PUT("/admin/pricing/:pass_type", handler.PutPricingField)
	e.POST("/admin/pricing/commit", handler.PostPricingCommit)
	e.POST("/admin/pricing/reset", handler.PostPricingReset)
	e.POST("/admin/pricing/reload", handler.PostPricingReload)

	return e
}
