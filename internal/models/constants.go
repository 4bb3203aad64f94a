package models

// Endpoint paths relative to the MCP base URL
const (
	PathSSE      = "/sse"
	PathMessages = "/messages"
)

// DefaultBaseURL is where the demo backend listens by default
const DefaultBaseURL = "http://localhost:8080/api/mcp"

// Status indicator labels
const (
	StatusChecking     = "Checking..."
	StatusConnected    = "Connected"
	StatusDisconnected = "Disconnected"
)

// ErrorReply is appended as the assistant message when a request fails
const ErrorReply = "Sorry, I encountered an error processing your request. Please make sure the MCP server is running and try again."

// PendingTokenPrefix prefixes the identifier of a pending placeholder
const PendingTokenPrefix = "typing-"

// ProbeHeaders returns headers for the reachability probe
func ProbeHeaders() map[string]string {
	return map[string]string{
		"Accept":        "text/event-stream",
		"Cache-Control": "no-cache",
	}
}

// MessageHeaders returns headers for the messages endpoint
func MessageHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
