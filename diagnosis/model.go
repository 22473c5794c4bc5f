package diagnosis

import "time"

// Exam describes one uploaded attachment. ExtractedText is empty for
// non-text media, sentinel text when extraction failed, and the document
// text otherwise.
type Exam struct {
	OriginalName  string `json:"originalName"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	MimeType      string `json:"mimetype"`
	Size          int64  `json:"size"`
	ExtractedText string `json:"extractedText,omitempty"`
}

// Request is the transient input of one diagnosis pass.
type Request struct {
	PatientName       string
	UserPrompt        string
	ComplementaryData string
	Exams             []Exam
}

type Diagnosis struct {
	ID                string    `json:"id"`
	DoctorID          string    `json:"doctorId"`
	PatientName       string    `json:"patientName"`
	UserPrompt        string    `json:"userPrompt"`
	ComplementaryData string    `json:"complementaryData,omitempty"`
	Exams             []Exam    `json:"exams"`
	AIResponse        string    `json:"aiResponse"`
	Model             string    `json:"model"`
	Status            string    `json:"status"`
	ConsultID         string    `json:"consultId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// StatusOriginal tags a freshly generated diagnosis. Nothing in this flow
// ever mutates the tag.
const StatusOriginal = "ORIGINAL"
