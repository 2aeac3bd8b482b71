package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf/forms"
	"github.com/a3tai/mcp-nencho-tools/internal/tax"
)

func formatTaxResult(result tax.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "給与の収入金額: %s\n", tax.FormatYenInt(result.Income))
	fmt.Fprintf(&sb, "給与所得の金額: %s\n", tax.FormatYen(result.Taxable))
	if !result.Taxable.IsInteger() {
		fmt.Fprintf(&sb, "円未満切り捨て: %s\n", tax.FormatYenInt(result.Yen))
	}
	fmt.Fprintf(&sb, "区分: %d\n\n", result.Bracket)
	sb.WriteString(tax.Table(result.Bracket))
	return sb.String()
}

func formatFormFieldsResult(result *pdf.PDFFormFieldsResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d form field(s) in %s\n", len(result.Fields), result.Path)
	if len(result.Fields) == 0 {
		sb.WriteString("The document has no fillable form.\n")
		return sb.String()
	}

	for i, f := range result.Fields {
		fmt.Fprintf(&sb, "\n%d. %s (id %s, %s, page %d)\n", i+1, f.Name, f.ID, f.Type, f.Page)
		switch f.Type {
		case forms.FieldTypeCheckbox:
			fmt.Fprintf(&sb, "   Checked: %t (export value: %s)\n", f.Checked, f.ExportValue)
		default:
			if f.Value != "" {
				fmt.Fprintf(&sb, "   Value: %s\n", f.Value)
			}
		}
		if len(f.Options) > 0 {
			fmt.Fprintf(&sb, "   Options: %s\n", strings.Join(f.DisplayOptions(), ", "))
		}
		if f.MaxLength > 0 {
			fmt.Fprintf(&sb, "   Max length: %d\n", f.MaxLength)
		}
		if flags := fieldFlags(f); flags != "" {
			fmt.Fprintf(&sb, "   Flags: %s\n", flags)
		}
	}
	return sb.String()
}

func fieldFlags(f forms.Field) string {
	var flags []string
	if f.ReadOnly {
		flags = append(flags, "read-only")
	}
	if f.Required {
		flags = append(flags, "required")
	}
	if f.Editable {
		flags = append(flags, "editable")
	}
	if f.Multiline {
		flags = append(flags, "multiline")
	}
	return strings.Join(flags, ", ")
}

func formatFormFillResult(result *pdf.PDFFormFillResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Saved filled form to %s\n", result.OutputPath)
	fmt.Fprintf(&sb, "Source: %s\n", result.Path)

	report := result.Report
	fmt.Fprintf(&sb, "Updated (%d): %s\n", len(report.Updated), strings.Join(report.Updated, ", "))
	for _, sk := range report.Skipped {
		fmt.Fprintf(&sb, "Skipped: %s (%s)\n", sk.Name, sk.Reason)
	}
	if len(report.Unknown) > 0 {
		fmt.Fprintf(&sb, "Unknown fields: %s\n", strings.Join(report.Unknown, ", "))
	}
	return sb.String()
}

func formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}
	return text
}

func formatServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("%s v%s\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if result.TotalFiles > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", result.TotalFiles)
		for i, file := range result.DirectoryContents {
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		if more := result.TotalFiles - len(result.DirectoryContents); more > 0 {
			text += fmt.Sprintf("   ... and %d more files\n", more)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("• %s: %s\n", tool.Name, tool.Description)
	}
	return text
}
