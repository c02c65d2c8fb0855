package domain

// Status of a posted payload
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// CommandType names the kind of run an end-of-transmission marker closes
type CommandType string

const (
	CommandDiscovery CommandType = "discovery"
	CommandExecution CommandType = "execution"
)

// Payload is anything the reporting client can post
type Payload interface {
	payload()
}

// DiscoveryPayload carries the discovered tree
type DiscoveryPayload struct {
	CWD    string    `json:"cwd"`
	Status Status    `json:"status"`
	Tests  *TestNode `json:"tests"`
	Errors []string  `json:"errors,omitempty"`
}

// ExecutionPayload carries one or more outcome records
type ExecutionPayload struct {
	CWD      string             `json:"cwd"`
	Status   Status             `json:"status"`
	Result   map[string]Outcome `json:"result"`
	NotFound []string           `json:"not_found,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// EOTPayload tells the editor no further payloads follow for the run
type EOTPayload struct {
	CommandType CommandType `json:"command_type"`
	EOT         bool        `json:"eot"`
}

func (DiscoveryPayload) payload() {}
func (ExecutionPayload) payload() {}
func (EOTPayload) payload()       {}

// NewEOT returns the end-of-transmission marker for a run kind
func NewEOT(kind CommandType) EOTPayload {
	return EOTPayload{CommandType: kind, EOT: true}
}
