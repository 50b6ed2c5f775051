package gist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Fetcher 外部 gist 服务：返回 gist 内的文件名；未知 id 返回空列表
type Fetcher interface {
	FetchFiles(ctx context.Context, id string) ([]string, error)
}

// Client GitHub gists API
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type gistResponse struct {
	Files map[string]json.RawMessage `json:"files"`
}

func (c *Client) FetchFiles(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		return []string{}, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/gists/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build gist request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return []string{}, nil
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("gist request: unexpected status %d", resp.StatusCode)
	}

	var body gistResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gist: %w", err)
	}
	names := make([]string, 0, len(body.Files))
	for name := range body.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
