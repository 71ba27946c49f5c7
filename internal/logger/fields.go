package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Context-level fields, carried down the call chain with the request.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldDish is the normalized dish name being analyzed
	FieldDish = "dish"

	// FieldProvider is the reasoning provider tag
	FieldProvider = "provider"

	// FieldWarmupID identifies a cache warm-up run
	FieldWarmupID = "warmup_id"
)

// Entry-level fields, used for aggregation.
const (
	// FieldStage is the pipeline stage an event belongs to
	FieldStage = "stage"

	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"

	// FieldCause is the short reason attached to a failed stage
	FieldCause = "cause"
)
