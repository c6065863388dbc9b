package model

// Agent is a remote worker registered with the service.
type Agent struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CreateAgentRequest is the body of POST /api/v1/agents.
type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Script is a runnable file known to the service.
type Script struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// CreateScriptRequest is the body of POST /api/v1/scripts.
type CreateScriptRequest struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
}
