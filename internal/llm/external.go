package llm

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

// ExternalGenerator delegates whole-article drafting to a separate
// generation service. When configured it is tried before the in-process
// orchestrator.
type ExternalGenerator struct {
	url        string
	httpClient *http.Client
}

// NewExternalGenerator builds a delegation client, or nil when no URL is
// configured.
func NewExternalGenerator(url string, timeout time.Duration) *ExternalGenerator {
	if url == "" {
		return nil
	}
	return &ExternalGenerator{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate posts the request to the generation service and decodes the
// bilingual draft. Either body missing fails the call.
func (g *ExternalGenerator) Generate(ctx context.Context, req Request) (*Draft, error) {
	payload, err := json.Marshal(map[string]string{
		"title":         req.Title,
		"tweet_ar":      req.TweetAr,
		"tweet_en":      req.TweetEn,
		"research":      req.Research,
		"category":      req.Category,
		"speaker_name":  req.SpeakerName,
		"speaker_title": req.SpeakerTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generation service HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		TitleAr string `json:"title_ar"`
		TitleEn string `json:"title_en"`
		BodyAr  string `json:"body_ar"`
		BodyEn  string `json:"body_en"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	if strings.TrimSpace(out.BodyAr) == "" || strings.TrimSpace(out.BodyEn) == "" {
		return nil, fmt.Errorf("generation service returned an incomplete draft")
	}

	return &Draft{
		TitleAr: out.TitleAr,
		TitleEn: out.TitleEn,
		BodyAr:  Sanitize(out.BodyAr),
		BodyEn:  Sanitize(out.BodyEn),
	}, nil
}
