package hall

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lectern/internal/api"
	"lectern/internal/audio"
	"lectern/internal/cli/scheme/colours"
	"lectern/internal/domain/library/generator"
	"lectern/internal/gemini"
	"lectern/internal/tutor"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API until the hall shuts down.
func (h *Hall) Serve(cmd *cobra.Command, args []string) {
	client, err := h.geminiClient()
	if err != nil {
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			printMissingKey()
			return
		}
		colours.Error.Printf("❌ Could not connect to Gemini: %v\n", err)
		return
	}

	opts := &api.Options{
		Address:        viper.GetString("server.address"),
		DisableReqLogs: !viper.GetBool("server.request_logs"),
		Lectures:       lectureCache(generator.NewGemini(client)),
		Tutor:          tutor.New(client),
		History:        tutor.NewHistory(viper.GetString("tutor.history_path")),
	}

	synth, closeSynth, err := h.newSynthesizer()
	if err != nil {
		logrus.WithError(err).Warn("speech synthesis disabled")
	} else {
		defer closeSynth()
		opts.Speech = audio.NewService(synth)
	}

	server := api.NewServer(opts)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	colours.Success.Printf("🌐 Lectern API listening on %s\n", opts.Address)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			colours.Error.Printf("❌ Server stopped: %v\n", err)
		}
		return
	case <-h.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logrus.WithError(err).Error("failed to stop server")
	}
}
