package entity

// Form part names of the upload request.
const (
	PartPaymentReport = "payment_report"
	PartMTRReport     = "mtr_report"
)

// UploadedFile is one uploaded report, held in memory for the request.
type UploadedFile struct {
	Part     string
	Filename string
	Data     []byte
}
