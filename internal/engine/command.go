package engine

import "github.com/orbitkit/gravsim/internal/body"

// Command is the closed set of control messages a host may send. One struct
// per variant keeps payload shapes checked at compile time instead of via
// field-presence sniffing on an any-shaped message.
type Command interface {
	isCommand()
}

// Init replaces the entire simulation state and un-idles the scheduler.
// G <= 0 selects the engine's configured default constant. Invalid bodies
// are dropped individually; a bad probe never sinks a whole scenario.
type Init struct {
	Bodies    []body.Body
	G         float64
	TimeScale float64
	Paused    bool
}

// UpdateBodies replaces every body's mass, position, and velocity while
// leaving G, time scale, and the pause flag untouched. Hosts use it to
// resync after batching several additions.
type UpdateBodies struct {
	Bodies []body.Body
}

// AddBody appends one body if capacity allows; beyond capacity it is a
// silent no-op observable only through the snapshot body count.
type AddBody struct {
	Body body.Body
}

// RemoveBody removes by id; unknown ids are ignored, so removal is
// idempotent.
type RemoveBody struct {
	ID string
}

// SetTimeScale changes the simulated-seconds-per-real-second factor,
// effective from the next tick. Non-positive or non-finite values are
// ignored.
type SetTimeScale struct {
	Scale float64
}

// SetPaused suspends or resumes integration from the next tick. Commands
// are still processed while paused.
type SetPaused struct {
	Paused bool
}

func (Init) isCommand()         {}
func (UpdateBodies) isCommand() {}
func (AddBody) isCommand()      {}
func (RemoveBody) isCommand()   {}
func (SetTimeScale) isCommand() {}
func (SetPaused) isCommand()    {}

// BodyState is one body's slice of a snapshot.
type BodyState struct {
	ID       string    `json:"id"`
	Position body.Vec3 `json:"position"`
	Velocity body.Vec3 `json:"velocity"`
}

// Snapshot is the engine's only output: the complete post-tick state, by
// value. Hosts replace their cached copy wholesale rather than diffing.
// Time is simulated seconds since Init and increases monotonically across
// received snapshots.
type Snapshot struct {
	Time      float64     `json:"time"`
	Bodies    []BodyState `json:"bodies"`
	BodyCount int         `json:"bodyCount"`
}
