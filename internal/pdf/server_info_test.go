package pdf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf/pdftest"
)

func TestService_PDFServerInfo(t *testing.T) {
	svc, dir := newTestService(t)
	for i := range 12 {
		pdftest.WriteFile(t, dir, fmt.Sprintf("form%02d.pdf", i), pdftest.PlainPDF())
	}

	info := svc.PDFServerInfo("mcp-nencho-tools", "1.2.3")

	assert.Equal(t, "mcp-nencho-tools", info.ServerName)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, dir, info.DefaultDirectory)
	assert.Equal(t, int64(testMaxFileSize), info.MaxFileSize)
	assert.Equal(t, 12, info.TotalFiles)
	assert.Len(t, info.DirectoryContents, 10)
	assert.Len(t, info.AvailableTools, 7)
	assert.Equal(t, "pdf_form_fields", info.AvailableTools[0].Name)
	assert.NotEmpty(t, info.AvailableTools[0].Description)
}

func TestService_PDFServerInfo_EmptyDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	info := svc.PDFServerInfo("x", "1")
	assert.Equal(t, 0, info.TotalFiles)
	assert.NotNil(t, info.DirectoryContents)
}
