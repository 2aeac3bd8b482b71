package pdf

import "github.com/a3tai/mcp-nencho-tools/internal/pdf/forms"

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// PDFFormFieldsRequest represents a request to list the form fields of a PDF
type PDFFormFieldsRequest struct {
	Path string `json:"path"`
}

// PDFFormFillRequest represents a request to write values into a PDF form.
// Output defaults to "<name>_編集済み.pdf" next to the input. An existing
// output is only replaced when Overwrite is set.
type PDFFormFillRequest struct {
	Path      string       `json:"path"`
	Output    string       `json:"output,omitempty"`
	Values    forms.Values `json:"values"`
	Overwrite bool         `json:"overwrite,omitempty"`
}

// Response Types

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid     bool   `json:"valid"`
	Path      string `json:"path"`
	Message   string `json:"message,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`
	HasForm   bool   `json:"has_form,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFFormFieldsResult lists the fields of one document
type PDFFormFieldsResult struct {
	Path   string                  `json:"path"`
	Fields []forms.Field           `json:"fields"`
	Counts map[forms.FieldType]int `json:"counts"`
}

// PDFFormFillResult describes a completed fill
type PDFFormFillResult struct {
	Path       string            `json:"path"`
	OutputPath string            `json:"output_path"`
	Report     *forms.FillReport `json:"report"`
}
