package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile        = "file_path"
	FieldIndustry    = "industry"
	FieldCategory    = "category"
	FieldLineItem    = "line_item"
	FieldShortDesc   = "short_description"
	FieldMatchSource = "match_source"
	FieldConfidence  = "confidence"
	FieldScope       = "scope"
	FieldOperation   = "operation"
	FieldReason      = "reason"
	FieldCount       = "count"
	FieldSkipped     = "skipped"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
