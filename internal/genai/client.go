// Package genai is a thin client for the generative-model REST API used to
// produce insights over uploaded files.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTemperature     = 0.5
	defaultMaxOutputTokens = 2048
)

// Client calls the generateContent endpoint of a hosted generative model.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given API base URL, model name and key.
func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	FileURI  string `json:"file_uri"`
	MimeType string `json:"mime_type"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt together with a reference to the stored file and
// returns the joined text of the first candidate. Any transport error,
// non-200 status or empty candidate list is an error; the caller decides
// whether to retry (nothing here does).
func (c *Client) Generate(ctx context.Context, prompt, fileURI, mimeType string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{FileData: &fileData{FileURI: fileURI, MimeType: mimeType}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     defaultTemperature,
			MaxOutputTokens: defaultMaxOutputTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model api error: status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	texts := make([]string, 0, len(result.Candidates[0].Content.Parts))
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}

	return strings.Join(texts, " "), nil
}
