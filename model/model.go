package model

// Msg is the envelope of every websocket message. Content carries the JSON
// encoding of the payload named by Type.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// request types
const (
	TypeEnv   = "env"
	TypeInput = "input"
	TypeStep  = "step"
	TypeStart = "start"
	TypeStop  = "stop"
)

// reply types
const (
	TypeEnvSet   = "envSet"
	TypeInputSet = "inputSet"
	TypeData     = "data"
	TypeStarted  = "started"
	TypeStopped  = "stopped"
	TypeError    = "error"
)

// Env carries a loop description document.
type Env struct {
	Loop string `json:"loop"`
}

// Input overrides the external inputs of one entity. Nil fields are left
// unchanged.
type Input struct {
	Index    int      `json:"index"`
	Heat     *float64 `json:"heat,omitempty"`
	Work     *float64 `json:"work,omitempty"`
	MassFlow *float64 `json:"mass_flow,omitempty"`
}

// StepRequest asks for a number of synchronous steps.
type StepRequest struct {
	Steps int `json:"steps"`
}

// EnvSet answers an env request.
type EnvSet struct {
	Session  string   `json:"session"`
	Entities []string `json:"entities"`
	Timestep float64  `json:"timestep_s"`
}

// EntityTemperature is one control volume in a TemperatureData push.
type EntityTemperature struct {
	Index  int     `json:"index"`
	Name   string  `json:"name"`
	Inlet  float64 `json:"inlet_k"`
	Outlet float64 `json:"outlet_k"`
	Bulk   float64 `json:"bulk_k"`
	Heat   float64 `json:"heat_w"`
}

// TemperatureData is the network state after a completed step.
type TemperatureData struct {
	Step     int                 `json:"step"`
	Time     float64             `json:"time_s"`
	Entities []EntityTemperature `json:"entities"`
}
