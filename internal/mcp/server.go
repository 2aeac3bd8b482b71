// Package mcp exposes the taxable income calculator and the PDF form tools
// as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-nencho-tools/internal/config"
	"github.com/a3tai/mcp-nencho-tools/internal/descriptions"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf/forms"
	"github.com/a3tai/mcp-nencho-tools/internal/tax"
)

var log = logrus.WithField("module", "mcp")

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool list is fixed
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolTaxableIncome,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolTaxableIncome)),
		mcp.WithString("income",
			mcp.Required(),
			mcp.Description("Annual salary income in yen, e.g. \"3,600,000\" or \"３６０００００円\""),
		),
	), s.handleTaxableIncome)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolTaxableIncomeTable,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolTaxableIncomeTable)),
	), s.handleTaxableIncomeTable)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolPDFFormFields,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPDFFormFields)),
		pathParam,
	), s.handlePDFFormFields)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolPDFFormFill,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPDFFormFill)),
		pathParam,
		mcp.WithObject("values",
			mcp.Required(),
			mcp.Description("Field name or ID mapped to the new value"),
		),
		mcp.WithString("output",
			mcp.Description("Output path (defaults to <name>_編集済み.pdf)"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace the output file if it already exists"),
		),
	), s.handlePDFFormFill)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolPDFValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPDFValidateFile)),
		pathParam,
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolPDFSearchDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolPDFSearchDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive file name filter"),
		),
	), s.handlePDFSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	), s.handleServerInfo)
}

// Handler functions

func (s *Server) handleTaxableIncome(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := incomeArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	income, err := tax.ParseIncome(raw)
	if err != nil {
		log.WithError(err).Debug("rejected income")
		return mcp.NewToolResultError(tax.ErrInvalidIncome.Error()), nil
	}

	result := tax.Compute(income)
	log.WithFields(logrus.Fields{"income": income, "bracket": result.Bracket}).Debug("computed taxable income")
	return mcp.NewToolResultText(formatTaxResult(result)), nil
}

func (s *Server) handleTaxableIncomeTable(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(tax.Table(-1)), nil
}

func (s *Server) handlePDFFormFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFFormFields(pdf.PDFFormFieldsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormFieldsResult(result)), nil
}

func (s *Server) handlePDFFormFill(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	values, err := valuesArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFFormFillRequest{
		Path:      path,
		Output:    request.GetString("output", ""),
		Values:    values,
		Overwrite: request.GetBool("overwrite", false),
	}
	result, err := s.pdfService.PDFFormFill(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormFillResult(result)), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		text := fmt.Sprintf("PDF file %s is valid and readable (%d page(s)", result.Path, result.Pages)
		if result.HasForm {
			text += ", has form fields"
		}
		if result.Encrypted {
			text += ", encrypted"
		}
		return mcp.NewToolResultText(text + ")"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.PDFSearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
	}

	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSearchDirectoryResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.pdfService.PDFServerInfo(s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

// incomeArgument accepts the income as a string or, from clients that send
// JSON numbers, as a number.
func incomeArgument(request mcp.CallToolRequest) (string, error) {
	raw, ok := request.GetArguments()["income"]
	if !ok {
		return "", fmt.Errorf("required argument \"income\" not found")
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return "", tax.ErrInvalidIncome
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", tax.ErrInvalidIncome
	}
}

// valuesArgument reads the values object. Some clients send objects as a
// JSON-encoded string, so that form is accepted too.
func valuesArgument(request mcp.CallToolRequest) (forms.Values, error) {
	raw, ok := request.GetArguments()["values"]
	if !ok {
		return nil, fmt.Errorf("required argument \"values\" not found")
	}

	switch v := raw.(type) {
	case map[string]any:
		return forms.Values(v), nil
	case string:
		var values forms.Values
		if err := json.Unmarshal([]byte(v), &values); err != nil {
			return nil, fmt.Errorf("values must be an object: %w", err)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("values must be an object, got %T", raw)
	}
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

func (s *Server) runStdioMode(_ context.Context) error {
	log.WithField("directory", s.config.PDFDirectory).Debug("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode falls back to stdio; the HTTP transport is not wired.
func (s *Server) runServerMode(ctx context.Context) error {
	log.Warn("server mode is not implemented, falling back to stdio mode")
	return s.runStdioMode(ctx)
}
