package logging

// LogEntry represents a structured log record with fields relevant to
// backend calls and evolution rounds.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Backend-specific fields
	ModelID string // The generation model being used

	// General structured data
	Fields map[string]interface{}
}
