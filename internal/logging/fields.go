package logging

const (
	// FieldComponent names the subsystem that emitted a log line.
	FieldComponent = "component"
	// FieldRunID carries the batch run identifier.
	FieldRunID = "run_id"
	// FieldPreset carries the preset key in use.
	FieldPreset = "preset"
	// FieldEncoder carries the selected video encoder name.
	FieldEncoder = "encoder"
	// FieldInput carries the source file path of a task.
	FieldInput = "input"
	// FieldOutput carries the destination file path of a task.
	FieldOutput = "output"
	// FieldEventType tags a log line with a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step for the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)
