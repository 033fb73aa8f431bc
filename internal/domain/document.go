package domain

import "time"

// MaxDocumentsPerPerson caps how many documents can be attached during
// registration.
const MaxDocumentsPerPerson = 5

// Document is an uploaded file attached to an insured person's record.
type Document struct {
	ID           string
	PolicyNumber string
	FileName     string
	FileType     string
	SizeBytes    int64
	Data         []byte
	CreatedAt    time.Time
}
