package domain

import "fmt"

// ConfigError reports an invalid run configuration (missing keyword file,
// bad year range). It aborts the whole run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// FetchError reports a failed warehouse query for a single year. Sibling
// years are unaffected and may still be processed.
type FetchError struct {
	Year int
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to %s for year %d: %v", e.Op, e.Year, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SchemaError reports a fetched relation whose shape does not match
// expectations (missing column, missing table, empty link table). The
// identifier merge cannot proceed meaningfully, so it is fatal for the run.
type SchemaError struct {
	Relation string
	Detail   string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected schema in %s: %s: %v", e.Relation, e.Detail, e.Err)
	}
	return fmt.Sprintf("unexpected schema in %s: %s", e.Relation, e.Detail)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ExportError reports a failed output write for a single year.
type ExportError struct {
	Year int
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export year %d to %s: %v", e.Year, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
