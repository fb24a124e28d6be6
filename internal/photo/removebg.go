package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoveBGEndpoint is the remove.bg API endpoint
const RemoveBGEndpoint = "https://api.remove.bg/v1.0/removebg"

// RemoveBG strips the photo background through the remove.bg API.
type RemoveBG struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewRemoveBG creates a RemoveBG processor. An empty endpoint uses RemoveBGEndpoint.
func NewRemoveBG(apiKey, endpoint string) *RemoveBG {
	if endpoint == "" {
		endpoint = RemoveBGEndpoint
	}
	return &RemoveBG{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Process implements Processor
func (r *RemoveBG) Process(ctx context.Context, img []byte, _ string) ([]byte, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("remove.bg api key not set")
	}

	form := url.Values{}
	form.Set("image_file_b64", base64.StdEncoding.EncodeToString(img))
	form.Set("size", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling remove.bg: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remove.bg returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}
