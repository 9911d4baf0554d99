package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Config struct {
	APIKey      string
	Model       string
	SpeechModel string
	Voice       string
	Timeout     time.Duration
	// BaseURL is the REST endpoint used for speech generation.
	BaseURL string
}

// ConfigFromViper reads the gemini.* keys.
func ConfigFromViper() Config {
	return Config{
		APIKey:      viper.GetString("gemini.api_key"),
		Model:       viper.GetString("gemini.model"),
		SpeechModel: viper.GetString("gemini.tts_model"),
		Voice:       viper.GetString("gemini.tts_voice"),
		Timeout:     viper.GetDuration("gemini.timeout"),
	}
}

// Client talks to the Gemini API. Text and JSON generation go through the
// genai SDK, speech generation through the REST endpoint.
type Client struct {
	cfg   Config
	genai *genai.Client
	http  *http.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, classify(err)
	}

	return &Client{
		cfg:   cfg,
		genai: gc,
		http:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) Close() error {
	if c.genai == nil {
		return nil
	}
	return c.genai.Close()
}

// GenerateJSON asks the model for a JSON document matching schema and returns
// the raw text with any code fence removed.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error) {
	model := c.model(system)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	text, err := c.generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	return StripCodeFence(text), nil
}

// GenerateText asks the model for a free text reply.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, c.model(system), prompt)
}

func (c *Client) model(system string) *genai.GenerativeModel {
	model := c.genai.GenerativeModel(c.cfg.Model)
	model.SetTemperature(0.7)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	return model
}

func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logrus.WithError(err).WithField("model", c.cfg.Model).Warn("gemini generation failed")
		return "", classify(err)
	}

	logrus.WithFields(logrus.Fields{
		"model":    c.cfg.Model,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("gemini generation finished")

	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrInvalidOutput
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", ErrInvalidOutput
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrInvalidOutput
	}
	return text, nil
}

// StripCodeFence removes a surrounding markdown code fence such as ```json.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
