package recurtrace

// Resource ceilings bounding a single execution, per spec.md §5. They exist
// so that the HTTP collaborator can run untrusted programs without a
// separate sandboxing layer: every execution terminates in bounded work
// regardless of the source program.
const (
	// MaxStackLen is the maximum number of concurrently active call frames.
	MaxStackLen = 16

	// MaxFrameCount is the maximum number of frames created over the
	// lifetime of one execution, active or already returned.
	MaxFrameCount = 512

	// IterationLimit is the maximum number of iterations a single Loop
	// instance may run before it is aborted.
	IterationLimit = 1000
)
