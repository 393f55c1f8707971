package types

// RunPhase represents the lifecycle phase of a workflow run
type RunPhase string

const (
	RunPhaseRunning   RunPhase = "running"
	RunPhaseSucceeded RunPhase = "succeeded"
	RunPhaseFailed    RunPhase = "failed"
	RunPhaseStopped   RunPhase = "stopped"
)

// String returns the string representation of the phase
func (p RunPhase) String() string {
	return string(p)
}

// IsValid checks if the phase is valid
func (p RunPhase) IsValid() bool {
	switch p {
	case RunPhaseRunning, RunPhaseSucceeded, RunPhaseFailed, RunPhaseStopped:
		return true
	default:
		return false
	}
}

// IsCompleted reports whether the run has finished and carries a resiliency score
func (p RunPhase) IsCompleted() bool {
	switch p {
	case RunPhaseSucceeded, RunPhaseFailed, RunPhaseStopped:
		return true
	default:
		return false
	}
}
