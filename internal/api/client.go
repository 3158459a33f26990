package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rcanales/lanes/internal/models"
)

// Client is the HTTP client for the lanes API, used by the TUI to commit
// optimistic mutations.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client against a base URL like "http://127.0.0.1:7432".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListBoards(ctx context.Context) ([]*models.Board, error) {
	var boards []*models.Board
	err := c.do(ctx, http.MethodGet, "/api/boards", nil, &boards)
	return boards, err
}

func (c *Client) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	var board models.Board
	err := c.do(ctx, http.MethodPost, "/api/boards", map[string]string{"name": name}, &board)
	return &board, err
}

func (c *Client) GetBoardDetail(ctx context.Context, boardID string) (*models.BoardDetail, error) {
	var detail models.BoardDetail
	err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID+"/detail", nil, &detail)
	return &detail, err
}

func (c *Client) CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error) {
	var col models.Column
	err := c.do(ctx, http.MethodPost, "/api/boards/"+boardID+"/columns", map[string]string{"name": name}, &col)
	return &col, err
}

func (c *Client) UpdateColumn(ctx context.Context, columnID, name string) (*models.Column, error) {
	var col models.Column
	err := c.do(ctx, http.MethodPatch, "/api/columns/"+columnID, map[string]string{"name": name}, &col)
	return &col, err
}

func (c *Client) DeleteColumn(ctx context.Context, columnID string) error {
	return c.do(ctx, http.MethodDelete, "/api/columns/"+columnID, nil, nil)
}

// MoveColumn commits a column reorder.
func (c *Client) MoveColumn(ctx context.Context, columnID string, position float64) (*models.Column, error) {
	var col models.Column
	err := c.do(ctx, http.MethodPost, "/api/columns/"+columnID+"/move",
		map[string]float64{"position": position}, &col)
	return &col, err
}

// CreateCard creates a card at an explicit fractional position.
func (c *Client) CreateCard(ctx context.Context, columnID, title string, position float64) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPost, "/api/cards", map[string]any{
		"column_id": columnID,
		"title":     title,
		"position":  position,
	}, &card)
	return &card, err
}

func (c *Client) UpdateCard(ctx context.Context, cardID string, fields map[string]any) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPatch, "/api/cards/"+cardID, fields, &card)
	return &card, err
}

func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/"+cardID, nil, nil)
}

// MoveCard commits a drag gesture's final container and position.
func (c *Client) MoveCard(ctx context.Context, cardID, columnID string, position float64) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPost, "/api/cards/"+cardID+"/move", map[string]any{
		"column_id": columnID,
		"position":  position,
	}, &card)
	return &card, err
}

func (c *Client) AttachTag(ctx context.Context, cardID, tag string) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPost, "/api/cards/"+cardID+"/tags", map[string]string{"tag": tag}, &card)
	return &card, err
}

func (c *Client) DetachTag(ctx context.Context, cardID, tag string) (*models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodDelete, "/api/cards/"+cardID+"/tags/"+tag, nil, &card)
	return &card, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
