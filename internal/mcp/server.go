// Package mcp provides an MCP (Model Context Protocol) server that exposes
// CourtListener legal-data lookups and the process's own monitoring state as
// MCP tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/courtlistener"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/metrics"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
)

// Server wraps the CourtListener client and the monitoring pipeline and
// exposes them as MCP tools. Every legal-data call is instrumented: its
// outcome feeds the metrics collector and the trace buffer.
type Server struct {
	server  *gomcp.Server
	client  courtlistener.Client
	metrics *metrics.Collector
	monitor *monitoring.Monitor
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(client courtlistener.Client, collector *metrics.Collector, monitor *monitoring.Monitor, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		client:  client,
		metrics: collector,
		monitor: monitor,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "courtlistener-mcp", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type searchOpinionsInput struct {
	Query string `json:"query" jsonschema:"required,full-text search query over court opinions"`
	Court string `json:"court,omitempty" jsonschema:"restrict results to a court by its CourtListener ID (e.g. scotus)"`
	Page  int    `json:"page,omitempty" jsonschema:"result page number, starting at 1"`
}

type searchHitOutput struct {
	ID        int    `json:"id"`
	CaseName  string `json:"case_name,omitempty"`
	Court     string `json:"court,omitempty"`
	DateFiled string `json:"date_filed,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	CiteCount int    `json:"cite_count,omitempty"`
}

type searchOpinionsOutput struct {
	Results []searchHitOutput `json:"results"`
	Count   int               `json:"count"`
}

type getOpinionInput struct {
	ID int `json:"id" jsonschema:"required,the numeric CourtListener opinion ID"`
}

type opinionOutput struct {
	ID        int    `json:"id"`
	CaseName  string `json:"case_name,omitempty"`
	Court     string `json:"court,omitempty"`
	DateFiled string `json:"date_filed,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
	URL       string `json:"url,omitempty"`
}

type getDocketInput struct {
	ID int `json:"id" jsonschema:"required,the numeric CourtListener docket ID"`
}

type docketOutput struct {
	ID           int    `json:"id"`
	CaseName     string `json:"case_name,omitempty"`
	DocketNumber string `json:"docket_number,omitempty"`
	Court        string `json:"court,omitempty"`
	DateFiled    string `json:"date_filed,omitempty"`
	URL          string `json:"url,omitempty"`
}

type getReportInput struct{}

type checkOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type alertOutput struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Count     int    `json:"count"`
	Triggered string `json:"triggered"`
	LastSeen  string `json:"last_seen"`
}

type reportOutput struct {
	Timestamp           string                 `json:"timestamp"`
	HealthStatus        string                 `json:"health_status"`
	Checks              map[string]checkOutput `json:"checks"`
	Grade               string                 `json:"grade"`
	TotalRequests       int64                  `json:"total_requests"`
	SuccessRate         float64                `json:"success_rate"`
	AverageResponseTime float64                `json:"average_response_time_ms"`
	MemoryUsagePercent  float64                `json:"memory_usage_percent"`
	TotalTraces         int                    `json:"total_traces"`
	TraceErrorRate      float64                `json:"trace_error_rate"`
	ActiveAlerts        []alertOutput          `json:"active_alerts"`
}

type getStatsInput struct{}

type statsOutput struct {
	Uptime             string  `json:"uptime"`
	ChecksPerformed    int64   `json:"checks_performed"`
	AlertsTriggered    int64   `json:"alerts_triggered"`
	TracesCollected    int64   `json:"traces_collected"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_opinions",
		Description: "Search court opinions by full-text query, optionally restricted to a court. Returns one page of results.",
	}, s.handleSearchOpinions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_opinion",
		Description: "Get a single court opinion by its numeric ID, including its plain text when available.",
	}, s.handleGetOpinion)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_docket",
		Description: "Get a single court docket by its numeric ID.",
	}, s.handleGetDocket)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_monitoring_report",
		Description: "Get a point-in-time snapshot of the server's own health: health checks, request metrics, resource usage, trace analysis, and active alerts.",
	}, s.handleGetReport)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_monitor_stats",
		Description: "Get the monitoring pipeline's lifetime counters: uptime, checks performed, alerts triggered, traces collected.",
	}, s.handleGetStats)
}

// --- Tool handlers ---

func (s *Server) handleSearchOpinions(ctx context.Context, _ *gomcp.CallToolRequest, input searchOpinionsInput) (*gomcp.CallToolResult, searchOpinionsOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), searchOpinionsOutput{}, nil
	}

	start := time.Now()
	results, err := s.client.SearchOpinions(ctx, input.Query, input.Court, input.Page)
	s.record("search_opinions", start, err)
	if err != nil {
		return errorResult(fmt.Sprintf("searching opinions: %s", err)), searchOpinionsOutput{}, nil
	}

	out := searchOpinionsOutput{
		Results: make([]searchHitOutput, len(results.Results)),
		Count:   results.Count,
	}
	for i, hit := range results.Results {
		out.Results[i] = searchHitOutput{
			ID:        hit.ID,
			CaseName:  hit.CaseName,
			Court:     hit.Court,
			DateFiled: hit.DateFiled,
			Snippet:   hit.Snippet,
			CiteCount: hit.CiteCount,
		}
	}

	return nil, out, nil
}

func (s *Server) handleGetOpinion(ctx context.Context, _ *gomcp.CallToolRequest, input getOpinionInput) (*gomcp.CallToolResult, opinionOutput, error) {
	if input.ID <= 0 {
		return errorResult("id must be a positive opinion ID"), opinionOutput{}, nil
	}

	start := time.Now()
	opinion, err := s.client.Opinion(ctx, input.ID)
	s.record("get_opinion", start, err)
	if err != nil {
		return errorResult(fmt.Sprintf("getting opinion %d: %s", input.ID, err)), opinionOutput{}, nil
	}

	out := opinionOutput{
		ID:        opinion.ID,
		CaseName:  opinion.CaseName,
		Court:     opinion.Court,
		DateFiled: opinion.DateFiled,
		PlainText: opinion.PlainText,
		URL:       opinion.AbsoluteURL,
	}
	return nil, out, nil
}

func (s *Server) handleGetDocket(ctx context.Context, _ *gomcp.CallToolRequest, input getDocketInput) (*gomcp.CallToolResult, docketOutput, error) {
	if input.ID <= 0 {
		return errorResult("id must be a positive docket ID"), docketOutput{}, nil
	}

	start := time.Now()
	docket, err := s.client.Docket(ctx, input.ID)
	s.record("get_docket", start, err)
	if err != nil {
		return errorResult(fmt.Sprintf("getting docket %d: %s", input.ID, err)), docketOutput{}, nil
	}

	out := docketOutput{
		ID:           docket.ID,
		CaseName:     docket.CaseName,
		DocketNumber: docket.DocketNumber,
		Court:        docket.Court,
		DateFiled:    docket.DateFiled,
		URL:          docket.AbsoluteURL,
	}
	return nil, out, nil
}

func (s *Server) handleGetReport(_ context.Context, _ *gomcp.CallToolRequest, _ getReportInput) (*gomcp.CallToolResult, reportOutput, error) {
	report := s.monitor.Report()

	out := reportOutput{
		Timestamp:           report.Timestamp.Format(time.RFC3339),
		HealthStatus:        string(report.Health.Status),
		Checks:              make(map[string]checkOutput, len(report.Health.Checks)),
		Grade:               report.Performance.Grade,
		TotalRequests:       report.Performance.TotalRequests,
		SuccessRate:         report.Performance.SuccessRate,
		AverageResponseTime: report.Performance.AverageResponseTime,
		MemoryUsagePercent:  report.Resources.Memory.UsagePercent,
		TotalTraces:         report.Traces.TotalTraces,
		TraceErrorRate:      report.Traces.ErrorRate,
		ActiveAlerts:        make([]alertOutput, len(report.ActiveAlerts)),
	}
	for name, check := range report.Health.Checks {
		out.Checks[name] = checkOutput{
			Status:  string(check.Status),
			Message: check.Message,
		}
	}
	for i, a := range report.ActiveAlerts {
		out.ActiveAlerts[i] = alertToOutput(a)
	}

	return nil, out, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, _ getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	stats := s.monitor.Stats()

	out := statsOutput{
		Uptime:             stats.Uptime.Round(time.Second).String(),
		ChecksPerformed:    stats.ChecksPerformed,
		AlertsTriggered:    stats.AlertsTriggered,
		TracesCollected:    stats.TracesCollected,
		MemoryUsagePercent: stats.LastResourceUsage.Memory.UsagePercent,
	}
	return nil, out, nil
}

// --- Helpers ---

// record feeds one completed legal-data call into the metrics collector and
// the trace buffer.
func (s *Server) record(operation string, start time.Time, err error) {
	duration := time.Since(start)
	s.metrics.RecordRequest(operation, duration, err)

	trace := monitoring.Trace{
		ID:        fmt.Sprintf("%s-%d", operation, start.UnixNano()),
		Operation: operation,
		Timestamp: start,
		Duration:  duration,
	}
	if err != nil {
		trace.Error = err.Error()
	}
	s.monitor.CollectTrace(trace)
}

func alertToOutput(a monitoring.Alert) alertOutput {
	return alertOutput{
		ID:        a.ID,
		Type:      string(a.Type),
		Severity:  string(a.Severity),
		Message:   a.Message,
		Count:     a.Count,
		Triggered: a.Timestamp.Format(time.RFC3339),
		LastSeen:  a.LastSeen.Format(time.RFC3339),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
