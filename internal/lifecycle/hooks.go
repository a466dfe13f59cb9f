package lifecycle

import "context"

// Stage orders shutdown hooks. Lower stages complete before higher ones start.
type Stage int

const (
	// StageIngress stops accepting new updates and requests.
	StageIngress Stage = iota
	// StageSessions settles or cancels in-flight work.
	StageSessions
	// StageResources releases connections and flushes buffers.
	StageResources
)

// Hook describes a named shutdown hook.
type Hook struct {
	Name  string
	Stage Stage
	Fn    func(ctx context.Context) error
}
