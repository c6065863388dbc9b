package model

// JobStatus is the server-reported state of a job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobScheduled JobStatus = "scheduled"
)

// String returns the string representation of the status.
func (s JobStatus) String() string {
	return string(s)
}

// Job is a scheduled execution of a script. Status and LastRunAt are owned by
// the server; LastRunAt is kept verbatim because the server emits naive
// timestamps without a zone.
type Job struct {
	ID        int       `json:"id"`
	Status    JobStatus `json:"status"`
	LastRunAt string    `json:"last_run_at,omitempty"`
	ScriptID  *int      `json:"script_id,omitempty"`
	AgentID   *int      `json:"agent_id,omitempty"`
	Schedule  string    `json:"schedule,omitempty"`
	When      string    `json:"when,omitempty"`
}

// CreateJobRequest is the body of POST /api/v1/jobs. Unset fields are not sent;
// a job without When runs as soon as possible.
type CreateJobRequest struct {
	ScriptID *int    `json:"script_id,omitempty"`
	When     *string `json:"when,omitempty"`
}
