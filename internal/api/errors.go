package api

import (
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"lectern/internal/audio"
	"lectern/internal/domain/library/generator"
	"lectern/internal/gemini"
	"lectern/internal/tutor"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, gemini.ErrRateLimited):
		return http.StatusTooManyRequests, true
	case errors.Is(err, gemini.ErrTimeout):
		return http.StatusGatewayTimeout, true
	case errors.Is(err, gemini.ErrUnavailable), errors.Is(err, gemini.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, true
	case errors.Is(err, gemini.ErrInvalidOutput), errors.Is(err, gemini.ErrUnauthenticated):
		return http.StatusBadGateway, true
	case errors.Is(err, generator.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, tutor.ErrEmptyQuestion), errors.Is(err, audio.ErrEmptyText), errors.Is(err, generator.ErrInvalidScript):
		return http.StatusBadRequest, true
	}
	return 0, false
}

func newHTTPErrorHandler(translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &httpErr):
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &validationErrs):
			fldErrs := make(map[string]string)
			for _, vErr := range validationErrs {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		default:
			if status, ok := statusFor(err); ok {
				code = status
				message = err.Error()
				break
			}
			logrus.WithError(err).WithField("path", c.Path()).Error("unhandled request error")
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, message)
			}
			if err != nil {
				logrus.WithError(err).Error("failed to write error response")
			}
		}
	}
}
