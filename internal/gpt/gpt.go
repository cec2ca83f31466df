package gpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gogpt "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const attempts = 3

var ErrNoKeys = errors.New("no OpenAI API key")

type Config struct {
	Keys    []string
	Timeout time.Duration

	// Optional; defaults to gpt-3.5-turbo and the public API
	Model   string
	BaseURL string
}

type Client struct {
	id int
	*gogpt.Client
}

type Handler struct {
	sync.Mutex
	cfg     Config
	index   int
	clients []*Client

	log   logrus.FieldLogger
	sleep func(time.Duration)
}

func New(cfg Config, log logrus.FieldLogger) (*Handler, error) {
	if len(cfg.Keys) == 0 {
		return nil, ErrNoKeys
	}
	if cfg.Model == "" {
		cfg.Model = gogpt.GPT3Dot5Turbo
	}

	h := &Handler{
		cfg:     cfg,
		clients: make([]*Client, len(cfg.Keys)),
		log:     log,
		sleep:   time.Sleep,
	}
	for i, key := range cfg.Keys {
		clientCfg := gogpt.DefaultConfig(key)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		h.clients[i] = &Client{
			id:     i,
			Client: gogpt.NewClientWithConfig(clientCfg),
		}
	}
	return h, nil
}

func (h *Handler) next() *Client {
	h.Lock()
	defer h.Unlock()
	client := h.clients[h.index]
	h.index = (h.index + 1) % len(h.clients)
	return client
}

// Translate translates a single placeholder value into lang. Rate limits,
// server errors and timeouts are retried.
func (h *Handler) Translate(ctx context.Context, text string, lang string) (string, error) {
	systemPrompt := "You are a professional translator. Translate the text exactly as provided without adding any comments, explanations, or additional text. Maintain the original formatting including any HTML, markdown, or special characters. Do not alter placeholders such as {{name}}, variables, or code snippets."
	userPrompt := fmt.Sprintf("Translate the following text to %s. Keep any markdown, HTML tags, and special characters (including [], {}, <>, etc.) unchanged:\n\n%s", lang, text)

	req := gogpt.ChatCompletionRequest{
		Model: h.cfg.Model,
		Messages: []gogpt.ChatCompletionMessage{
			{
				Role:    gogpt.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    gogpt.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.1,
		MaxTokens:   1024,
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		client := h.next()
		result, err := h.complete(ctx, client, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		log := h.log.WithFields(logrus.Fields{"client": client.id, "attempt": attempt + 1})
		var apiErr *gogpt.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			log.Warn("rate limit exceeded, waiting before retry")
			h.sleep(time.Duration(2+attempt) * time.Second)
		case errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			log.WithError(err).Warn("server error, retrying")
			h.sleep(time.Duration(1+attempt) * time.Second)
		case errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "timeout"):
			log.Warn("request timed out, retrying")
			h.sleep(time.Duration(1+attempt) * time.Second)
		default:
			log.WithError(err).Debug("translation failed")
		}
	}

	return "", fmt.Errorf("failed to translate after %d attempts: %w", attempts, lastErr)
}

func (h *Handler) complete(ctx context.Context, client *Client, req gogpt.ChatCompletionRequest) (string, error) {
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", errors.New("received empty translation")
	}
	return result, nil
}
