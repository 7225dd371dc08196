// Package openai implements a minimal client for the OpenAI REST API,
// covering the two calls the pipeline makes: one chat completion and one
// image generation per run.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Defaults applied when the configuration leaves them unset.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultTextModel  = "gpt-4o-mini"
	DefaultImageModel = "dall-e-3"

	// ImageSize is the only size the pipeline requests: one square image.
	ImageSize = "1024x1024"
)

// Config carries the settings needed to construct a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
}

// Client talks to the OpenAI API.
type Client struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
}

// NewClient creates a Client. The API key must be non-empty; everything else
// falls back to defaults.
func NewClient(cfg Config, client *http.Client) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = DefaultTextModel
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		client:     client,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a single-user-message chat completion request and
// returns the model's text response.
func (c *Client) ChatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.textModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage requests exactly one 1024x1024 image for the prompt and
// returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   ImageSize,
	}

	var resp imageResponse
	if err := c.post(ctx, "/images/generations", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("openai: image generation returned no image")
	}
	return resp.Data[0].URL, nil
}

// post sends a JSON request to the given API path and decodes the JSON
// response into out. Non-2xx responses are returned as errors carrying the
// response body.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	return nil
}
