package api

import (
	"context"
	"errors"
	"net"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
)

var errClientClosed = errors.New("client is closed")

// Probe reports whether the MCP server answered the SSE endpoint with a
// 2xx status. Every failure is reported as false.
func (c *Client) Probe(ctx context.Context) bool {
	err := c.Check(ctx)
	if err != nil {
		c.logger.Debug("probe failed", zap.String("endpoint", c.SSEURL()), zap.Error(err))
		return false
	}
	return true
}

// Check performs the reachability probe and returns the reason it failed.
// The response body is closed as soon as the headers are in.
func (c *Client) Check(ctx context.Context) error {
	endpoint := c.SSEURL()
	if c.IsClosed() {
		return apierrors.NewConnectivityError(endpoint, errClientClosed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apierrors.NewConnectivityError(endpoint, err)
	}
	for key, value := range models.ProbeHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, endpoint, "probe", err)
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierrors.NewAPIError(resp.StatusCode, endpoint, "probe rejected")
	}
	return nil
}

// transportError classifies a failed round-trip as a timeout or a
// connectivity failure.
func transportError(ctx context.Context, endpoint, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(op + " " + endpoint)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(op + " " + endpoint)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apierrors.NewConnectivityError(endpoint, ctxErr)
	}
	return apierrors.NewConnectivityError(endpoint, err)
}
