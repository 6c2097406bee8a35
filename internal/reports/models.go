package reports

// Export formats for freight curve downloads.
const (
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// Export is a rendered freight curve document ready to download, plus the
// archive key when S3 archival is configured.
type Export struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	StorageKey  string `json:"storage_key,omitempty"`
}
