package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-nencho-tools/internal/pdf/forms"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf/security"
)

var log = logrus.WithField("module", "pdf")

// ErrOutputExists is returned when a fill would replace an existing file
// without Overwrite.
var ErrOutputExists = errors.New("output file already exists")

// EditedSuffix is appended to the input name when no output path is given.
const EditedSuffix = "_編集済み"

// Service handles PDF file operations by orchestrating various PDF components
type Service struct {
	maxFileSize   int64
	validator     *Validator
	search        *Search
	extractor     *forms.Extractor
	filler        *forms.Filler
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		extractor:     forms.NewExtractor(),
		filler:        forms.NewFiller(),
		pathValidator: pathValidator,
	}, nil
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.SanitizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.ConfiguredDirectory()
	}

	dir, err := s.pathValidator.SanitizePath(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.pathValidator.ValidateDirectory(dir); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Directory = dir

	return s.search.SearchDirectory(req)
}

// PDFFormFields lists the AcroForm fields of a PDF
func (s *Service) PDFFormFields(req PDFFormFieldsRequest) (*PDFFormFieldsResult, error) {
	path, _, err := s.openablePDF(req.Path)
	if err != nil {
		return nil, err
	}

	fields, err := s.extractor.ExtractFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract form fields: %w", err)
	}

	log.WithField("path", path).Debugf("found %d form field(s)", len(fields))
	return &PDFFormFieldsResult{
		Path:   path,
		Fields: fields,
		Counts: lo.CountValuesBy(fields, func(f forms.Field) forms.FieldType { return f.Type }),
	}, nil
}

// PDFFormFill writes req.Values into the form and saves the result as a
// new file inside the configured directory.
func (s *Service) PDFFormFill(req PDFFormFillRequest) (*PDFFormFillResult, error) {
	path, info, err := s.openablePDF(req.Path)
	if err != nil {
		return nil, err
	}
	if info.encrypted {
		return nil, fmt.Errorf("%w: %s", forms.ErrEncrypted, path)
	}
	if len(req.Values) == 0 {
		return nil, fmt.Errorf("no values to fill")
	}

	output := req.Output
	if output == "" {
		output = EditedName(path)
	}
	outPath, err := s.pathValidator.SanitizePath(output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if !isPDFName(outPath) {
		return nil, fmt.Errorf("output must be a .pdf file: %s", outPath)
	}
	if filepath.Clean(outPath) == filepath.Clean(path) {
		return nil, fmt.Errorf("output must differ from the input file: %s", outPath)
	}
	if err := checkOutput(outPath, req.Overwrite); err != nil {
		return nil, err
	}

	report, err := s.filler.FillFile(path, outPath, req.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to fill form: %w", err)
	}

	log.WithFields(logrus.Fields{"path": path, "output": outPath}).Info("form filled")
	return &PDFFormFillResult{
		Path:       path,
		OutputPath: outPath,
		Report:     report,
	}, nil
}

// openablePDF resolves path inside the configured directory and checks it
// is a readable PDF.
func (s *Service) openablePDF(path string) (string, *documentInfo, error) {
	resolved, err := s.pathValidator.SanitizePath(path)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}
	info, err := s.validator.inspect(resolved)
	if err != nil {
		return "", nil, err
	}
	return resolved, info, nil
}

// checkOutput refuses symlinks, and existing files unless overwrite is set.
func checkOutput(outPath string, overwrite bool) error {
	info, err := os.Lstat(outPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access output %s: %w", outPath, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("security validation failed: output is a symlink: %s", outPath)
	}
	if !overwrite {
		return fmt.Errorf("%w: %s", ErrOutputExists, outPath)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("output is not a regular file: %s", outPath)
	}
	return nil
}

// EditedName returns the default output path for a filled copy of path.
func EditedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + EditedSuffix + ext
}

// ConfiguredDirectory returns the directory all tool paths are confined to
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.ConfiguredDirectory()
}
