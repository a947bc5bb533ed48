package constants

import "time"

// Defaults
const (
	DefaultMirrorRemote  = "mirror"
	DefaultTriggerBranch = "main"
)

// Timeouts
const (
	DefaultPushTimeout      = 5 * time.Minute
	DefaultLsRemoteTimeout  = 30 * time.Second
	DefaultOperationTimeout = 10 * time.Second
	QuickOperationTimeout   = 5 * time.Second
	KeyscanTimeout          = 10 * time.Second
)
