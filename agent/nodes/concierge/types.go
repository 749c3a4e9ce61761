// Package conciergenode holds the pipeline steps behind the concierge
// agent's message graph: prompt assembly, the model call, directive
// resolution, and reply finalization.
package conciergenode

type GraphInput struct {
	Text     string
	UserInfo map[string]any
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	Text     string
	UserInfo map[string]any

	System    string
	Prompt    string
	ModelText string
	Reply     string
}
