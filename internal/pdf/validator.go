package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator checks that a file can be handed to the form tools
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator that rejects files above maxFileSize
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// documentInfo is what opening a document tells us about it.
type documentInfo struct {
	pages     int
	encrypted bool
	hasForm   bool
}

// ValidateFile reports whether the file is a readable PDF and, when it is,
// its page count and whether it carries a form or encryption. Validation
// failures are returned in the result, not as an error.
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{Path: req.Path}

	info, err := v.inspect(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation outcome, not a processing error
	}

	result.Valid = true
	result.Pages = info.pages
	result.Encrypted = info.encrypted
	result.HasForm = info.hasForm
	return result, nil
}

// inspect runs the file checks and opens the document with ledongthuc/pdf.
func (v *Validator) inspect(filePath string) (*documentInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	trailer := r.Trailer()
	return &documentInfo{
		pages:     r.NumPage(),
		encrypted: !trailer.Key("Encrypt").IsNull(),
		hasForm:   !trailer.Key("Root").Key("AcroForm").IsNull(),
	}, nil
}

// ValidateFileInfo checks type, extension and size without opening the file
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	switch {
	case fileInfo.IsDir():
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	case !isPDFName(filePath):
		return fmt.Errorf("file is not a PDF: %s", filePath)
	case fileInfo.Size() == 0:
		return fmt.Errorf("file is empty: %s", filePath)
	case fileInfo.Size() > v.maxFileSize:
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)
	}
	return nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
