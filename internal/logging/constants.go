package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across commands and the HTTP service.
const (
	FieldCategory   = "account_category"
	FieldChapter    = "chapter"
	FieldQuery      = "query"
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldFormat     = "format"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
)
