package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultHistoryLimit is how many recent messages chat_history returns when
// no limit is given.
const DefaultHistoryLimit = 50

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("ask_assistant",
		mcp.WithDescription("Send a health question to NAYAM AI and return its reply. The exchange is recorded in the local chat history. Replies are informational, not a diagnosis."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The question or symptom description")),
	), s.handleAskAssistant)

	s.mcp.AddTool(mcp.NewTool("nearby_hospitals",
		mcp.WithDescription("List up to 10 hospitals near a position."),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude in decimal degrees")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude in decimal degrees")),
	), s.handleNearbyHospitals)

	s.mcp.AddTool(mcp.NewTool("chat_history",
		mcp.WithDescription("Read the local chat history. With day, returns that day's messages; otherwise the most recent messages plus a per-day summary."),
		mcp.WithString("day", mcp.Description("Calendar day as YYYY-MM-DD")),
		mcp.WithNumber("limit", mcp.Description("Maximum recent messages to return (default 50)")),
	), s.handleChatHistory)

	s.mcp.AddTool(mcp.NewTool("export_history",
		mcp.WithDescription("Return the full chat history in the export format, with the suggested file name."),
	), s.handleExportHistory)
}
