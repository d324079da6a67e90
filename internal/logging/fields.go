// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldFormat     = "format"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldSlug       = "slug"

	// Configuration fields.
	FieldInputFormat  = "input_format"
	FieldPackageDepth = "package_depth"
	FieldJobs         = "jobs"

	// Statistics fields.
	FieldFilesSelected = "files_selected"
	FieldFilesAnalyzed = "files_analyzed"
	FieldFilesSkipped  = "files_skipped"
	FieldPackages      = "packages"
	FieldPercent       = "percent"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
