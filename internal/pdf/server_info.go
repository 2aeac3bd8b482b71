package pdf

import (
	"github.com/samber/lo"

	"github.com/a3tai/mcp-nencho-tools/internal/descriptions"
)

// maxListedFiles caps the directory listing in server info
const maxListedFiles = 10

// ToolInfo names one tool and summarizes what it does
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PDFServerInfoResult describes the server, its directory and its tools
type PDFServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	TotalFiles        int        `json:"total_files"`
	AvailableTools    []ToolInfo `json:"available_tools"`
}

// PDFServerInfo reports server details and the first PDFs found in the
// configured directory. A failed directory scan leaves the listing empty.
func (s *Service) PDFServerInfo(serverName, version string) *PDFServerInfoResult {
	result := &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  s.ConfiguredDirectory(),
		MaxFileSize:       s.maxFileSize,
		DirectoryContents: []FileInfo{},
		AvailableTools: lo.Map(descriptions.GetAllToolNames(), func(name string, _ int) ToolInfo {
			return ToolInfo{Name: name, Description: descriptions.Summary(name)}
		}),
	}

	found, err := s.search.SearchDirectory(PDFSearchDirectoryRequest{Directory: s.ConfiguredDirectory()})
	if err != nil {
		log.WithError(err).Warn("failed to list configured directory")
		return result
	}

	result.TotalFiles = found.TotalCount
	if len(found.Files) > maxListedFiles {
		result.DirectoryContents = found.Files[:maxListedFiles]
	} else {
		result.DirectoryContents = found.Files
	}
	return result
}
