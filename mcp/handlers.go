package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/logger"
)

type askResult struct {
	Reply    string `json:"reply"`
	Language string `json:"language,omitempty"`
	Degraded bool   `json:"degraded"`
}

type nearbyResult struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Hospitals []api.Hospital `json:"hospitals"`
}

type daySummary struct {
	Day     string `json:"day"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Preview string `json:"preview"`
}

type historyResult struct {
	Total    int               `json:"total"`
	Messages []history.Message `json:"messages"`
	Days     []daySummary      `json:"days"`
}

type exportResult struct {
	Filename string         `json:"filename"`
	Export   history.Export `json:"export"`
}

func (s *Server) handleAskAssistant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return ValidationError("message is required"), nil
	}

	log := logger.NewRequestLogger()
	log.Info("mcp ask_assistant", "preview", logger.Truncate(message, 50))

	reply, err := s.app.Assistant.Send(ctx, message)
	if err != nil {
		return FromError(err, s.app.Language()), nil
	}
	if reply.Degraded {
		log.Warn("assistant reply degraded", "error", reply.Cause)
	}
	for _, w := range reply.Warnings {
		log.Warn("chat history not saved", "error", w)
	}

	return jsonResult(askResult{
		Reply:    reply.Message.Content,
		Language: reply.Language,
		Degraded: reply.Degraded,
	})
}

func (s *Server) handleNearbyHospitals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := req.RequireFloat("latitude")
	if err != nil {
		return ValidationError("latitude is required"), nil
	}
	lon, err := req.RequireFloat("longitude")
	if err != nil {
		return ValidationError("longitude is required"), nil
	}

	result, err := s.app.Assistant.NearbyAt(ctx, assistant.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return FromError(err, s.app.Language()), nil
	}
	return jsonResult(nearbyResult{
		Latitude:  result.Location.Latitude,
		Longitude: result.Location.Longitude,
		Hospitals: result.Hospitals,
	})
}

func (s *Server) handleChatHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if day := req.GetString("day", ""); day != "" {
		group, ok := s.app.History.Day(day)
		if !ok {
			return NotFound("day", day), nil
		}
		return jsonResult(group)
	}

	limit := req.GetInt("limit", DefaultHistoryLimit)
	if limit <= 0 {
		return ValidationError("limit must be positive"), nil
	}

	messages := s.app.History.Messages()
	total := len(messages)
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	now := time.Now().In(s.app.History.Location())
	days := []daySummary{}
	for g := range s.app.History.GroupByDay() {
		days = append(days, daySummary{
			Day:     g.Key,
			Label:   history.DayLabel(g.Date, now),
			Count:   len(g.Messages),
			Preview: history.Preview(g.Messages),
		})
	}

	return jsonResult(historyResult{Total: total, Messages: messages, Days: days})
}

func (s *Server) handleExportHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.app.Export()
	if err != nil {
		return FromError(err, s.app.Language()), nil
	}
	return jsonResult(exportResult{
		Filename: history.ExportFilename(doc.ExportedAt),
		Export:   doc,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolError{Code: ErrInternal, Message: "encode result: " + err.Error()}.ToResult(), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
