package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library/generator"
	"lectern/internal/lecture/narration"
)

const headerLectureID = "X-Lecture-Id"

type lectureRequest struct {
	Topic                 string `json:"topic" validate:"required,notblank,max=200"`
	TargetDurationMinutes int    `json:"targetDurationMinutes" validate:"required,min=1,max=90"`
	Fresh                 bool   `json:"fresh"`
}

type sentencesResponse struct {
	Sentences []string `json:"sentences"`
}

type lectureApi struct {
	svc      LectureService
	validate *validator.Validate
}

func registerLectureAPI(g *echo.Group, svc LectureService, validate *validator.Validate) {
	api := lectureApi{svc: svc, validate: validate}

	lg := g.Group("/lectures")
	lg.POST("", api.create)
	lg.GET("", api.query)
	lg.POST("/sentences", api.sentences)
	lg.GET("/:id", api.retrieve)
}

func (api *lectureApi) create(ctx echo.Context) error {
	var data lectureRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	entry, err := api.svc.GetLecture(ctx.Request().Context(), lecture.Request{
		Topic:                 data.Topic,
		TargetDurationMinutes: data.TargetDurationMinutes,
	}, data.Fresh)
	if err != nil {
		return errors.Wrap(err, "generating lecture")
	}

	ctx.Response().Header().Set(headerLectureID, entry.ID)
	return ctx.JSON(http.StatusOK, entry.Script)
}

func (api *lectureApi) query(ctx echo.Context) error {
	summaries, err := api.svc.List()
	if err != nil {
		return errors.Wrap(err, "listing lectures")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *lectureApi) retrieve(ctx echo.Context) error {
	entry, err := api.svc.Find(ctx.Param("id"))
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(headerLectureID, entry.ID)
	return ctx.JSON(http.StatusOK, entry.Script)
}

// sentences returns the narration queue for a script so clients can
// highlight the sentence being spoken.
func (api *lectureApi) sentences(ctx echo.Context) error {
	var script lecture.Script
	if err := ctx.Bind(&script); err != nil {
		return err
	}
	if err := generator.Validate(&script); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ctx.JSON(http.StatusOK, sentencesResponse{Sentences: narration.BuildSentenceQueue(script)})
}
