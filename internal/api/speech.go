package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library/generator"
)

type speechRequest struct {
	Script lecture.Script `json:"script"`
}

type speechApi struct {
	svc Converter
}

func registerSpeechAPI(g *echo.Group, svc Converter) {
	api := speechApi{svc: svc}
	g.POST("/speech", api.convert)
}

func (api *speechApi) convert(ctx echo.Context) error {
	var data speechRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := generator.Validate(&data.Script); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wav, err := api.svc.Convert(ctx.Request().Context(), data.Script)
	if err != nil {
		return errors.Wrap(err, "converting lecture to speech")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="lecture.wav"`)
	return ctx.Blob(http.StatusOK, "audio/wav", wav)
}
