package nflverse

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gridironlabs/warehouse-etl/internal/domain/rawfeed"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
	"github.com/gridironlabs/warehouse-etl/internal/usecase"
)

const (
	defaultBaseURL       = "https://github.com/nflverse/nflverse-data/releases/download"
	defaultSeasonWorkers = 4
	maxFeedBytes         = 512 << 20
)

var errNflverseTransient = crerr.New("nflverse transient failure")

type ClientConfig struct {
	HTTPClient    *http.Client
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	SeasonWorkers int
	Archive       rawfeed.Repository
	Logger        *logging.Logger
}

// Client fetches the published CSV feeds. Every fetched payload is archived
// through the configured rawfeed repository when one is set.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	maxRetries    int
	seasonWorkers int
	archive       rawfeed.Repository
	logger        *logging.Logger
}

var _ usecase.FeedProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 120 * time.Second
	}
	if httpClient.Transport == nil {
		httpClient.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	workers := cfg.SeasonWorkers
	if workers <= 0 {
		workers = defaultSeasonWorkers
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		maxRetries:    maxInt(cfg.MaxRetries, 0),
		seasonWorkers: workers,
		archive:       cfg.Archive,
		logger:        logger,
	}
}

// fetchCSV downloads one feed file, archives the raw payload, and parses it
// into header-keyed records.
func (c *Client) fetchCSV(ctx context.Context, path, entityType string, season int) ([]map[string]string, error) {
	fullURL := c.baseURL + path

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	c.archivePayload(ctx, path, entityType, season, fullURL, raw)

	records, err := parseCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNflverseTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNflverseTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d url=%s", errNflverseTransient, resp.StatusCode, fullURL)
			} else {
				return nil, fmt.Errorf("feed status=%d url=%s", resp.StatusCode, fullURL)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "nflverse request failed", "url", fullURL, "error", lastErr)
	if crerr.Is(lastErr, errNflverseTransient) {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, lastErr)
	}
	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxFeedBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

// archivePayload stores the raw feed bytes for replay and debugging. Archive
// failures are logged, never fatal.
func (c *Client) archivePayload(ctx context.Context, path, entityType string, season int, fullURL string, raw []byte) {
	if c.archive == nil {
		return
	}

	sum := sha256.Sum256(raw)
	meta, err := sonic.MarshalString(map[string]any{
		"path":  path,
		"bytes": len(raw),
	})
	if err != nil {
		meta = "{}"
	}

	item := rawfeed.Payload{
		Source:      "nflverse",
		EntityType:  entityType,
		EntityKey:   path,
		SeasonYear:  season,
		URL:         fullURL,
		PayloadHash: hex.EncodeToString(sum[:]),
		ByteSize:    len(raw),
		MetaJSON:    meta,
		FetchedAt:   time.Now().UTC(),
	}
	if err := c.archive.InsertMany(ctx, []rawfeed.Payload{item}); err != nil {
		c.logger.WarnContext(ctx, "raw feed archive failed", "path", path, "error", err)
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
