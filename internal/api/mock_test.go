package api

import (
	"bytes"
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
)

// MockResponseBody records whether the client closed it
type MockResponseBody struct {
	r      io.Reader
	mu     sync.Mutex
	closed bool
}

func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{r: bytes.NewReader(data)}
}

func (m *MockResponseBody) Read(p []byte) (int, error) { return m.r.Read(p) }

func (m *MockResponseBody) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *MockResponseBody) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockHttpClient stubs the two tls_client.HttpClient methods the MCP
// client uses. Calling any other method panics on the nil embedded
// interface.
type MockHttpClient struct {
	tls_client.HttpClient

	Response *fhttp.Response
	Err      error

	// DoFunc overrides Response/Err when set
	DoFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   [][]byte
	idle     int
}

// Do records req and its body, then answers with DoFunc or Response/Err
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) CloseIdleConnections() {
	m.mu.Lock()
	m.idle++
	m.mu.Unlock()
}

func (m *MockHttpClient) Requests() []*fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*fhttp.Request(nil), m.requests...)
}

func (m *MockHttpClient) LastBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

// NewMockHttpClient answers every request with statusCode and body
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError fails every request with err
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
