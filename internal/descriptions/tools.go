package descriptions

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Tool names
const (
	ToolTaxableIncome      = "taxable_income"
	ToolTaxableIncomeTable = "taxable_income_table"
	ToolPDFFormFields      = "pdf_form_fields"
	ToolPDFFormFill        = "pdf_form_fill"
	ToolPDFValidateFile    = "pdf_validate_file"
	ToolPDFSearchDirectory = "pdf_search_directory"
	ToolServerInfo         = "server_info"
)

// Tool descriptions with practical examples and use cases

const (
	TaxableIncomeDescription = `Convert an annual salary income (給与の収入金額) into taxable salary income (給与所得の金額) using the year-end adjustment bracket table.

**When to use:** Filling the 給与所得 line of a 年末調整 form, or checking which bracket of the reference table an income falls into.

**Input:** income as free text. Commas, full-width digits, a leading ¥ and a trailing 円 are accepted, e.g. "3,600,000", "３６０００００円".

**Examples:**
• "What is the taxable income for a salary of 1,628,000円?" → 876,800円 (bracket 6)
• "Compute 給与所得 for 8,500,000" → 6,550,000円 (bracket 10)

**Output:** taxable income in yen, the bracket index and the reference table with the matched row marked.

**Notes:** Brackets 6 to 8 divide by 4 and drop the remainder before multiplying. Fractional yen are shown as computed; the whole-yen figure is truncated.`

	TaxableIncomeTableDescription = `Show the full salary income to taxable income reference table (11 brackets).

**When to use:** Explaining how the calculation works, or looking up a bracket without a specific income.

**Output:** one row per bracket: the income range (A) and the formula applied to it.`

	PDFFormFieldsDescription = `List the fillable AcroForm fields of a PDF form.

**When to use:** Before filling a 年末調整 form (扶養控除等申告書, 基礎控除申告書, 保険料控除申告書) to learn the field names, types, current values and allowed options.

**Examples:**
• "Which fields does 扶養控除申告書.pdf have?"
• "Show the options of the dropdown fields in form.pdf"

**Output:** for each field: name, object ID, type (text, checkbox, select, radio), current value, options or checkbox export value, flags (read-only, required), max length and page.

**Best practices:** Use the reported names or IDs as keys for pdf_form_fill. A document without a form returns an empty list.`

	PDFFormFillDescription = `Write values into the fields of a PDF form and save the result as a new PDF.

**When to use:** Filling a 年末調整 form with known values, for example the taxable income computed by taxable_income.

**Parameters:**
• path: the PDF form
• values: an object mapping field name (or ID) to value. Text and dropdown fields take strings; checkboxes take true/false.
• output: optional output path. Defaults to "<name>_編集済み.pdf" next to the input.
• overwrite: optional, true to replace an existing output file.

**Examples:**
• {"path": "申告書.pdf", "values": {"氏名": "山田 太郎", "配偶者": true}}
• {"path": "form.pdf", "values": {"kind": "B"}, "output": "filled/form.pdf"}

**Output:** the written path plus which fields were updated, skipped (read-only) or unknown.

**Notes:** Dropdown and radio values must be one of the field's options unless the field is editable. Text longer than the field's max length fails the call and nothing is written. An existing output is only replaced with overwrite, and never when it is a symlink. Encrypted PDFs are refused. The input file is never overwritten.`

	PDFValidateFileDescription = `Verify that a file is a readable PDF before working with it.

**When to use:** Before listing or filling fields of a file you have not used before.

**Output:** whether the file is valid with its page count and whether it has form fields or encryption, or the reason it is not (missing, wrong extension, empty, too large, unreadable).`

	PDFSearchDirectoryDescription = `Find PDF files in the configured directory.

**When to use:** Locating the form to fill when you only know part of its name.

**Parameters:**
• directory: optional sub-directory (defaults to the configured directory)
• query: optional case-insensitive substring of the file name, e.g. "扶養" or "nencho"

**Output:** matching files with path, size and modification time.`

	ServerInfoDescription = `Show server name and version, the configured directory, the maximum file size and the list of tools.

**When to use:** At the start of a session to learn what this server can do.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolTaxableIncome:      TaxableIncomeDescription,
	ToolTaxableIncomeTable: TaxableIncomeTableDescription,
	ToolPDFFormFields:      PDFFormFieldsDescription,
	ToolPDFFormFill:        PDFFormFillDescription,
	ToolPDFValidateFile:    PDFValidateFileDescription,
	ToolPDFSearchDirectory: PDFSearchDirectoryDescription,
	ToolServerInfo:         ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools in sorted order
func GetAllToolNames() []string {
	names := lo.Keys(ToolDescriptions)
	slices.Sort(names)
	return names
}

// Summary returns the first line of a tool's description.
func Summary(toolName string) string {
	desc := GetToolDescription(toolName)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		return desc[:i]
	}
	return desc
}
