package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfHeader = []byte("%PDF-")

// Validator checks that fetched bytes are a readable PDF document
// before they reach the text extractor. Gazette downloads occasionally
// truncate; rejecting them here keeps a malformed document a soft,
// per-document failure.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Validate performs validation on in-memory PDF bytes
func (v *Validator) Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("document is empty")
	}

	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("document too large: %d bytes (max: %d bytes)",
			len(data), v.maxFileSize)
	}

	if !bytes.HasPrefix(data, pdfHeader) {
		return fmt.Errorf("not a PDF document: missing %%PDF header")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("invalid PDF document: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("invalid PDF document: %w", err)
	}

	return nil
}

// IsValid performs a quick check to see if the bytes are a valid PDF
func (v *Validator) IsValid(data []byte) bool {
	return v.Validate(data) == nil
}
