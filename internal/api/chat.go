package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"lectern/internal/domain/chat"
)

type chatRequest struct {
	Question string `json:"question" validate:"required,notblank,max=2000"`
	Context  string `json:"context"`
	Lecture  string `json:"lecture" validate:"max=200"`
}

type chatApi struct {
	tutor    Answerer
	history  Recorder
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, tutor Answerer, history Recorder, validate *validator.Validate) {
	api := chatApi{tutor: tutor, history: history, validate: validate}
	g.POST("/chat", api.ask)
}

func (api *chatApi) ask(ctx echo.Context) error {
	var data chatRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	q := chat.Question{Question: data.Question, Context: data.Context}
	answer, err := api.tutor.Answer(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "answering question")
	}

	if api.history != nil {
		if _, err := api.history.Record(data.Lecture, q, *answer); err != nil {
			logrus.WithError(err).Warn("failed to record chat exchange")
		}
	}

	return ctx.JSON(http.StatusOK, answer)
}
