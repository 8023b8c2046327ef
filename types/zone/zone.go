package zone

// UpdateStatusRequest is the body of PATCH /zones/:id/status (administrative
// override, independent of booking state).
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ImportSummary reports the outcome of one bulk import run.
type ImportSummary struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors,omitempty"`
}

// RowError points at one rejected spreadsheet row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
