package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/model"
)

const contractsPath = "/api/contracts"

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

// Client loads contract pages from the panel's JSON API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

func New(cfg config.APIConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// LoadPage fetches one page. Errors carry the server message when it sent one.
func (c *Client) LoadPage(ctx context.Context, page, size int) ([]model.Contract, error) {
	result, err := c.ListPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *Client) ListPage(ctx context.Context, page, size int) (*model.ContractPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+contractsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Int("page", page).Msg("contracts request failed")
		return nil, errors.New("network error")
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("page", page).
		Int("size", size).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("contracts page fetched")

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var result model.ContractPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode contracts page: %w", err)
	}
	if result.Data == nil {
		result.Data = []model.Contract{}
	}
	return &result, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("%d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
