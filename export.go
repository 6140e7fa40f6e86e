package ocrbot

// ExportFormat identifies an output format for extracted text.
type ExportFormat string

// Supported export formats.
const (
	ExportTXT  ExportFormat = "txt"
	ExportPDF  ExportFormat = "pdf"
	ExportDOCX ExportFormat = "docx"
)

// ParseExportFormat validates a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportTXT, ExportPDF, ExportDOCX:
		return f, nil
	}
	return "", Errorf(EUNSUPPORTED, "unknown export format %q", s)
}

// FileName returns the name the exported file is delivered under.
func (f ExportFormat) FileName() string {
	return "extracted_text." + string(f)
}

// Renderer renders extracted text into the bytes of one output format.
// Rendering failures are EEXPORT; a renderer never delivers partial output.
type Renderer interface {
	Render(text string) ([]byte, error)
}
