// Package api provides the MCP server client used by the remote provider.
package api

// GJSON paths tried, in order, when extracting the reply text from a
// messages response. The first one holding a non-empty string wins.
const (
	PathContent        = "content"
	PathMessageContent = "message.content"
	PathChoiceContent  = "choices.0.message.content"
	PathResultText     = "result.content.0.text"
	PathRole           = "role"
	PathError          = "error"
)

var contentPaths = []string{
	PathContent,
	PathMessageContent,
	PathChoiceContent,
	PathResultText,
}

// maxBodySize caps how much of a messages response is read
const maxBodySize = 1 << 20
