package api

import (
	"context"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"lectern/internal/domain/chat"
	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library"
)

type (
	// LectureService produces and lists cached lectures.
	LectureService interface {
		GetLecture(ctx context.Context, req lecture.Request, fresh bool) (*library.Entry, error)
		Find(id string) (*library.Entry, error)
		List() ([]library.Summary, error)
	}

	Answerer interface {
		Answer(ctx context.Context, q chat.Question) (*chat.Answer, error)
	}

	// Recorder persists answered questions. Optional.
	Recorder interface {
		Record(lecture string, q chat.Question, a chat.Answer) (chat.Exchange, error)
	}

	Converter interface {
		Convert(ctx context.Context, script lecture.Script) ([]byte, error)
	}

	Options struct {
		Address        string
		DisableReqLogs bool
		Lectures       LectureService
		Tutor          Answerer
		History        Recorder
		Speech         Converter
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	validate, translator := newValidator()
	s := &server{
		opts:       opts,
		app:        echo.New(),
		validate:   validate,
		translator: translator,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestID())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger())
	}
	s.app.Use(middleware.Recover())

	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.translator)

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerLectureAPI(v1, s.opts.Lectures, s.validate)
	registerChatAPI(v1, s.opts.Tutor, s.opts.History, s.validate)
	if s.opts.Speech != nil {
		registerSpeechAPI(v1, s.opts.Speech)
	}
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *server) Start() error {
	logrus.WithField("address", s.opts.Address).Info("HTTP API listening")
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Lectern API!")
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("request")
			return nil
		},
	})
}
