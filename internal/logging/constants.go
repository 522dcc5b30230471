package logging

// Field names shared across the pipeline so log lines can be filtered per run,
// per invoice and per line.
const (
	FieldRunID     = "run_id"
	FieldVAT       = "vat"
	FieldFile      = "file_path"
	FieldComponent = "component"
	FieldMark      = "mark"
	FieldAA        = "aa"
	FieldLine      = "line"
	FieldCategory  = "category"
	FieldRate      = "vat_rate"
	FieldSource    = "vat_rate_source"
	FieldAccount   = "account"
	FieldIssue     = "issue_code"
	FieldCount     = "count"
	FieldOutput    = "output_file"
)
