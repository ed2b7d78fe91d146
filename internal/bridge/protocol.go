package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/orbitkit/gravsim/internal/body"
	"github.com/orbitkit/gravsim/internal/engine"
)

// envelope is the wire shape for both directions: a type tag and a payload.
// Unknown types are ignored with a diagnostic so the bridge keeps working
// against hosts speaking a newer or older protocol revision.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type initPayload struct {
	Bodies    []body.Body `json:"bodies"`
	G         float64     `json:"g"`
	TimeScale float64     `json:"timeScale"`
	Paused    bool        `json:"paused"`
}

type updateBodiesPayload struct {
	Bodies []body.Body `json:"bodies"`
}

type removeBodyPayload struct {
	ID string `json:"id"`
}

type scalarPayload struct {
	Value float64 `json:"value"`
}

type boolPayload struct {
	Value bool `json:"value"`
}

// decodeCommand maps one wire message onto its typed engine command. The
// returned string is the command type for metrics labeling.
func decodeCommand(raw []byte) (engine.Command, string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, "", fmt.Errorf("malformed envelope: %w", err)
	}

	switch env.Type {
	case "init":
		var p initPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, env.Type, fmt.Errorf("init payload: %w", err)
		}
		ts := p.TimeScale
		if ts == 0 {
			ts = 1.0
		}
		return engine.Init{Bodies: p.Bodies, G: p.G, TimeScale: ts, Paused: p.Paused}, env.Type, nil
	case "updateBodies":
		var p updateBodiesPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, env.Type, fmt.Errorf("updateBodies payload: %w", err)
		}
		return engine.UpdateBodies{Bodies: p.Bodies}, env.Type, nil
	case "addBody":
		var b body.Body
		if err := json.Unmarshal(env.Data, &b); err != nil {
			return nil, env.Type, fmt.Errorf("addBody payload: %w", err)
		}
		return engine.AddBody{Body: b}, env.Type, nil
	case "removeBody":
		var p removeBodyPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, env.Type, fmt.Errorf("removeBody payload: %w", err)
		}
		return engine.RemoveBody{ID: p.ID}, env.Type, nil
	case "setTimeScale":
		var p scalarPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, env.Type, fmt.Errorf("setTimeScale payload: %w", err)
		}
		return engine.SetTimeScale{Scale: p.Value}, env.Type, nil
	case "setPaused":
		var p boolPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, env.Type, fmt.Errorf("setPaused payload: %w", err)
		}
		return engine.SetPaused{Paused: p.Value}, env.Type, nil
	default:
		return nil, env.Type, fmt.Errorf("unknown command type %q", env.Type)
	}
}

// encodeSnapshot wraps a snapshot in the outbound envelope.
func encodeSnapshot(snap engine.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: "snapshot", Data: data})
}
