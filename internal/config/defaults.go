package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultHost is where payloads are posted
	DefaultHost = "localhost"
	// DefaultPort is used when TEST_PORT is unset or unparsable
	DefaultPort = 45454
	// DefaultStorageDir holds the last discovery and execution payloads
	DefaultStorageDir = ".testbridge"
	// DefaultFolderKey memoizes folders by full directory path
	DefaultFolderKey = "path"
	// DefaultLogLevel is the default zerolog level
	DefaultLogLevel = "info"
	// DefaultLogFormat is "text" (console) or "json"
	DefaultLogFormat = "text"
)

// Environment variables read by the adapter
const (
	EnvPort        = "TEST_PORT"
	EnvUUID        = "TEST_UUID"
	EnvRunPipe     = "TEST_RUN_PIPE"
	EnvTestIDsPipe = "RUN_TEST_IDS_PIPE"
)
