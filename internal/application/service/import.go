package service

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult contains the outcome of a bulk import. A bad row never
// aborts the batch; it is reported in Errors and skipped.
type ImportResult[T any] struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Created    []T              `json:"created"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// importRowNumber maps a slice index to the spreadsheet row it came from.
// Row 1 is the header.
func importRowNumber(i int) int {
	return i + 2
}

func (r *ImportResult[T]) fail(row int, field, message string) {
	r.Errors = append(r.Errors, ImportRowError{Row: row, Field: field, Message: message})
}

func (r *ImportResult[T]) finish(created []T) *ImportResult[T] {
	if created == nil {
		created = []T{}
	}
	r.Created = created
	r.Successful = len(created)
	r.Failed = len(r.Errors)
	return r
}
