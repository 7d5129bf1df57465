package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Engine 音乐生成引擎，返回生成的音频数据
type Engine interface {
	Generate(ctx context.Context, req *GenerateRequest) ([]byte, error)
}

// GenerateRequest 生成参数
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	Style       string `json:"style,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
}

// HTTPEngine 调用外部生成服务的引擎实现
type HTTPEngine struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPEngine(apiURL, apiKey string) *HTTPEngine {
	return &HTTPEngine{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Generate 请求生成服务，响应体为音频二进制
func (e *HTTPEngine) Generate(ctx context.Context, req *GenerateRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generate api returned %d: %s", resp.StatusCode, snippet)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("generate api returned empty audio")
	}
	return audio, nil
}
