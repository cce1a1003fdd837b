package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ad/go-telegram-practice/internal/models"
	"go.uber.org/zap"
)

// DefaultURL is the public Codeforces problemset endpoint.
const DefaultURL = "https://codeforces.com/api/problemset.problems"

// Client fetches the full problemset in one unauthenticated GET.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

func NewClient(url string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
		logger:     logger,
	}
}

type envelope struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  struct {
		Problems []models.Problem `json:"problems"`
	} `json:"result"`
}

func (c *Client) FetchProblems(ctx context.Context) ([]models.Problem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if env.Status != "OK" {
		return nil, fmt.Errorf("catalog status %q: %s", env.Status, env.Comment)
	}

	c.logger.Debug("fetched problemset", zap.Int("problems", len(env.Result.Problems)))
	return env.Result.Problems, nil
}
