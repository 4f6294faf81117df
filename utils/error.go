package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Data-store failure classes. Callers wrap them with %w and test with errors.Is.
var (
	// ErrorConnection: the data store cannot be reached. Fatal for a run.
	ErrorConnection = errors.New("data store connection error")
	// ErrorQuery: a read query failed (schema, permissions). Fatal for a run.
	ErrorQuery = errors.New("query error")
	// ErrorWrite: a single-row write failed. Recorded per row.
	ErrorWrite = errors.New("write error")
)
