package entity

// Output file names, relative to the configured output directory.
const (
	FilePaymentReport  = "transformed_payment_report.csv"
	FileMTRReport      = "transformed_mtr_report.xlsx"
	FileExemplarReport = "exemplar_report.xlsx"
)

// Artifact is an encoded output file not yet written.
type Artifact struct {
	Name string
	Data []byte
	Rows int
}

// WrittenArtifact describes an output file on disk.
type WrittenArtifact struct {
	Name     string
	Path     string
	Checksum string
	Size     int64
	Rows     int
}
