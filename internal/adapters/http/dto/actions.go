package dto

// ActionURI is the path of an action invocation.
type ActionURI struct {
	Action string `uri:"action" json:"action" validate:"required,max=256,actionname"`
}

// InvokeRequest is the body of POST /api/v1/actions/:action.
// A missing body or missing params invokes the action with empty params.
type InvokeRequest struct {
	Params map[string]any `json:"params"`
}

// InvokeResponse wraps an action result.
type InvokeResponse struct {
	Result any `json:"result"`
}

// ActionsResponse lists the actions a service serves locally.
type ActionsResponse struct {
	Actions []string `json:"actions"`
}
