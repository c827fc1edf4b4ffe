// Package logg holds the structured log field keys shared by every layer.
package logg

const (
	Layer      = "layer"
	Operation  = "op"
	RunID      = "run_id"
	Action     = "action"
	Selector   = "selector"
	URL        = "url"
	Checkpoint = "checkpoint"
	State      = "state"
	Prompt     = "prompt"
)
