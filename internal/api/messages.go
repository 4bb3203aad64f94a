package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
)

type messageRequest struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// SendMessage posts a user message to the MCP server and decodes the reply
func (c *Client) SendMessage(ctx context.Context, text string) (*models.Reply, error) {
	endpoint := c.MessagesURL()
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.NewEmptyInputError()
	}
	if c.IsClosed() {
		return nil, apierrors.NewConnectivityError(endpoint, errClientClosed)
	}

	payload, err := json.Marshal(messageRequest{Role: models.RoleUser, Content: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.MessageHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, endpoint, "send message", err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(ctx, endpoint, "read reply", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, PathError).String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, msg).WithBody(string(body))
	}

	reply, err := ParseReply(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("reply received",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return reply, nil
}

// Respond implements the conversation response provider contract
func (c *Client) Respond(ctx context.Context, text string) (string, error) {
	reply, err := c.SendMessage(ctx, text)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

// ParseReply extracts the assistant text from a messages response body.
// Known JSON shapes are probed first, then a bare JSON string, and any
// other body is taken verbatim.
func ParseReply(body []byte) (*models.Reply, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, apierrors.ErrNoContent
	}

	reply := &models.Reply{Role: models.RoleAssistant, Raw: string(body)}

	if !gjson.ValidBytes(trimmed) {
		reply.Content = string(trimmed)
		return reply, nil
	}

	parsed := gjson.ParseBytes(trimmed)
	switch {
	case parsed.Type == gjson.String:
		reply.Content = parsed.String()
	case parsed.IsObject():
		if role := parsed.Get(PathRole).String(); role != "" {
			reply.Role = models.Role(role)
		}
		for _, path := range contentPaths {
			if v := parsed.Get(path); v.Type == gjson.String && v.String() != "" {
				reply.Content = v.String()
				break
			}
		}
		if reply.Content == "" {
			if parsed.Get(PathContent).Exists() {
				return nil, apierrors.ErrNoContent
			}
			reply.Content = string(trimmed)
		}
	default:
		reply.Content = string(trimmed)
	}

	if strings.TrimSpace(reply.Content) == "" {
		return nil, apierrors.ErrNoContent
	}
	return reply, nil
}
