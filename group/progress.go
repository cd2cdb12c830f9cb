package group

type (
	// ProgressFollower is notified of the steps of group generation. Tick is called
	// once per rejected candidate, so that long safe prime searches remain observable.
	ProgressFollower interface {
		StepStart(desc string, intermediates int)
		Tick()
		StepDone()
	}

	EmptyFollower struct{}
)

func (*EmptyFollower) StepStart(_ string, _ int) {}
func (*EmptyFollower) Tick()                     {}
func (*EmptyFollower) StepDone()                 {}

// Follower is used by generators that do not set their own.
var Follower ProgressFollower = &EmptyFollower{}
