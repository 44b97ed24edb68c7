package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AskResponse is the ask endpoint's contract: the answer object is always
// present and well-formed, the source fields only when attribution applies.
type AskResponse struct {
	Answer      Answer `json:"answer"`
	SourceImage string `json:"source_image,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
	PageNumber  int    `json:"page_number,omitempty"`
}

type UploadResponse struct {
	Processed int        `json:"processed"`
	Failed    []string   `json:"failed,omitempty"`
	Documents []Document `json:"documents"`
}

type ProcessingDocumentStatus struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Document       string  `json:"document,omitempty"`
	Progress       float64 `json:"progress"`
	TotalPages     int     `json:"total_pages"`
	ProcessedPages int     `json:"processed_pages"`
}
