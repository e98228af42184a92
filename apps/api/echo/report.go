package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt, staffMiddleware())
	rg.GET("/summary", api.summary)
	rg.GET("/summary.csv", api.summaryCSV)
}

func (api *reportApi) bind(ctx echo.Context) (report.SummaryFilter, error) {
	var filter report.SummaryFilter
	if err := ctx.Bind(&filter); err != nil {
		return filter, errors.Wrap(err, "binding to SummaryFilter")
	}
	filter.Clean()
	return filter, nil
}

// Handlers

func (api *reportApi) summary(ctx echo.Context) error {
	filter, err := api.bind(ctx)
	if err != nil {
		return err
	}
	sum, err := api.svc.Summary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "summarizing courses")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *reportApi) summaryCSV(ctx echo.Context) error {
	filter, err := api.bind(ctx)
	if err != nil {
		return err
	}
	sum, err := api.svc.Summary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "summarizing courses")
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="summary-%s.csv"`, time.Now().UTC().Format("20060102")),
	)
	resp.WriteHeader(http.StatusOK)
	return report.WriteCSV(resp, sum)
}
