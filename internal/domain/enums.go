package domain

// FileType represents the document formats accepted for extraction.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// PageType labels the purpose of a bill page. Used for display grouping,
// never for arithmetic.
type PageType string

const (
	PageTypeFinalBill  PageType = "Final Bill"
	PageTypePharmacy   PageType = "Pharmacy"
	PageTypeBillDetail PageType = "Bill Detail"
)

// PipelineState tracks a document request through the extraction pipeline.
type PipelineState string

const (
	StateReceived    PipelineState = "received"
	StateClassifying PipelineState = "classifying"
	StateExtracting  PipelineState = "extracting"
	StateReconciling PipelineState = "reconciling"
	StateEvaluating  PipelineState = "evaluating"
	StateCompleted   PipelineState = "completed"
	StateFailed      PipelineState = "failed"
)
