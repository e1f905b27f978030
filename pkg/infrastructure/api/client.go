// Package api fetches catalog and inventory snapshots from the backing REST service.
package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
)

// Paths names the list endpoints. An empty ExtractionsPath skips extraction records.
type Paths struct {
	BloodTypes  string `yaml:"blood_types"`
	Components  string `yaml:"components"`
	Inventory   string `yaml:"inventory"`
	Extractions string `yaml:"extractions"`
}

// DefaultPaths returns the endpoint layout of the reference service
func DefaultPaths() Paths {
	return Paths{
		BloodTypes:  "/blood-types",
		Components:  "/blood-components",
		Inventory:   "/inventory",
		Extractions: "/extractions",
	}
}

// ClientConfig configures the REST client
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryCount     int
	RetryWait      time.Duration
	RetryMaxWait   time.Duration
	PageSize       int
	MaxConcurrency int
	Paths          Paths
}

// DefaultClientConfig returns sensible client defaults for baseURL
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:        baseURL,
		Timeout:        30 * time.Second,
		RetryCount:     3,
		RetryWait:      1 * time.Second,
		RetryMaxWait:   5 * time.Second,
		PageSize:       100,
		MaxConcurrency: 4,
		Paths:          DefaultPaths(),
	}
}

// Client reads paginated lists from the backing service and assembles a snapshot
type Client struct {
	httpClient *resty.Client
	tokens     TokenSource
	config     ClientConfig
	logger     *zap.Logger
}

// Verify interface compliance
var _ repositories.SnapshotSource = (*Client)(nil)

// NewClient creates a REST client. tokens may be nil for unauthenticated services.
func NewClient(config ClientConfig, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 1
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(config.RetryCount).
		SetRetryWaitTime(config.RetryWait).
		SetRetryMaxWaitTime(config.RetryMaxWait).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil {
				return true
			}
			code := resp.StatusCode()
			return code == 429 || code >= 500
		})

	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		config:     config,
		logger:     logger,
	}
}

// Name identifies the source in logs and events
func (c *Client) Name() string {
	return "api:" + c.config.BaseURL
}

// Fetch downloads every list and returns the full snapshot. Nothing is returned
// unless all lists were read completely.
func (c *Client) Fetch(ctx context.Context) (*entities.Snapshot, error) {
	started := time.Now()
	snapshot := &entities.Snapshot{Extractions: []entities.ExtractionRecord{}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := fetchAll[bloodTypeDTO](gctx, c, c.config.Paths.BloodTypes)
		if err != nil {
			return fmt.Errorf("blood types: %w", err)
		}
		snapshot.BloodTypes = make([]entities.BloodType, len(items))
		for i, item := range items {
			snapshot.BloodTypes[i] = item.toEntity()
		}
		return nil
	})

	g.Go(func() error {
		items, err := fetchAll[componentDTO](gctx, c, c.config.Paths.Components)
		if err != nil {
			return fmt.Errorf("components: %w", err)
		}
		snapshot.Components = make([]entities.BloodComponent, len(items))
		for i, item := range items {
			snapshot.Components[i] = item.toEntity()
		}
		return nil
	})

	g.Go(func() error {
		items, err := fetchAll[inventoryUnitDTO](gctx, c, c.config.Paths.Inventory)
		if err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
		snapshot.Units = make([]entities.InventoryUnit, len(items))
		for i, item := range items {
			snapshot.Units[i] = item.toEntity()
		}
		return nil
	})

	if c.config.Paths.Extractions != "" {
		g.Go(func() error {
			items, err := fetchAll[extractionDTO](gctx, c, c.config.Paths.Extractions)
			if err != nil {
				return fmt.Errorf("extractions: %w", err)
			}
			snapshot.Extractions = make([]entities.ExtractionRecord, len(items))
			for i, item := range items {
				snapshot.Extractions[i] = item.toEntity()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("Snapshot fetch failed", zap.String("base_url", c.config.BaseURL), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	c.logger.Info("Fetched snapshot",
		zap.Int("blood_types", len(snapshot.BloodTypes)),
		zap.Int("components", len(snapshot.Components)),
		zap.Int("inventory_units", len(snapshot.Units)),
		zap.Int("extractions", len(snapshot.Extractions)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return snapshot, nil
}

// fetchAll reads page 0 to learn the page count, then the remaining pages concurrently.
// Items are returned in page order.
func fetchAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	first, totalPages, err := fetchPage[T](ctx, c, path, 0)
	if err != nil {
		return nil, err
	}
	if totalPages <= 1 {
		return first, nil
	}

	pages := make([][]T, totalPages)
	pages[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxConcurrency)
	for number := 1; number < totalPages; number++ {
		number := number
		g.Go(func() error {
			items, _, err := fetchPage[T](gctx, c, path, number)
			if err != nil {
				return err
			}
			pages[number] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]T, 0, len(first)*totalPages)
	for _, items := range pages {
		result = append(result, items...)
	}
	return result, nil
}

func fetchPage[T any](ctx context.Context, c *Client, path string, number int) ([]T, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to obtain token: %w", err)
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(number)).
		SetQueryParam("size", strconv.Itoa(c.config.PageSize))
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call %s: %w", path, err)
	}
	if resp.IsError() {
		c.logger.Warn("Backing service returned error",
			zap.String("path", path),
			zap.Int("page", number),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, 0, &StatusError{Path: path, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	items, totalPages, err := decodePage[T](resp.Body())
	if err != nil {
		return nil, 0, fmt.Errorf("%s page %d: %w", path, number, err)
	}

	c.logger.Debug("Fetched page",
		zap.String("path", path),
		zap.Int("page", number),
		zap.Int("total_pages", totalPages),
		zap.Int("items", len(items)),
	)
	return items, totalPages, nil
}
