package bridge

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/orbitkit/gravsim/internal/engine"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want engine.Command
	}{
		{
			"addBody",
			`{"type":"addBody","data":{"id":"probe","mass":0,"position":{"x":1,"y":2,"z":3},"velocity":{"x":0,"y":0.5,"z":0}}}`,
			nil, // shape asserted below
		},
		{
			"removeBody",
			`{"type":"removeBody","data":{"id":"probe"}}`,
			engine.RemoveBody{ID: "probe"},
		},
		{
			"setTimeScale",
			`{"type":"setTimeScale","data":{"value":250}}`,
			engine.SetTimeScale{Scale: 250},
		},
		{
			"setPaused",
			`{"type":"setPaused","data":{"value":true}}`,
			engine.SetPaused{Paused: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, cmdType, err := decodeCommand([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if cmdType != tt.name {
				t.Errorf("type label: got %q, expected %q", cmdType, tt.name)
			}
			if tt.want != nil && cmd != tt.want {
				t.Errorf("got %#v, expected %#v", cmd, tt.want)
			}
		})
	}

	cmd, _, err := decodeCommand([]byte(`{"type":"addBody","data":{"id":"probe","mass":0,"position":{"x":1,"y":2,"z":3},"velocity":{"y":0.5}}}`))
	if err != nil {
		t.Fatalf("decode addBody: %v", err)
	}
	add, ok := cmd.(engine.AddBody)
	if !ok {
		t.Fatalf("expected AddBody, got %T", cmd)
	}
	if add.Body.ID != "probe" || add.Body.Position.Z != 3 || add.Body.Velocity.Y != 0.5 {
		t.Errorf("addBody payload mangled: %+v", add.Body)
	}
}

func TestDecodeInitDefaultsTimeScale(t *testing.T) {
	raw := `{"type":"init","data":{"bodies":[{"id":"sun","mass":1000}],"g":1}}`
	cmd, _, err := decodeCommand([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	init, ok := cmd.(engine.Init)
	if !ok {
		t.Fatalf("expected Init, got %T", cmd)
	}
	if init.TimeScale != 1.0 {
		t.Errorf("time scale default: got %v, expected 1.0", init.TimeScale)
	}
	if len(init.Bodies) != 1 || init.Bodies[0].ID != "sun" {
		t.Errorf("bodies mangled: %+v", init.Bodies)
	}
}

func TestDecodeRejectsUnknownAndMalformed(t *testing.T) {
	if _, cmdType, err := decodeCommand([]byte(`{"type":"selfDestruct","data":{}}`)); err == nil {
		t.Error("unknown command type accepted")
	} else if cmdType != "selfDestruct" {
		t.Errorf("type label: got %q", cmdType)
	}

	if _, _, err := decodeCommand([]byte(`not json`)); err == nil {
		t.Error("malformed envelope accepted")
	}
	if _, _, err := decodeCommand([]byte(`{"type":"setTimeScale","data":"nope"}`)); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestEncodeSnapshotEnvelope(t *testing.T) {
	snap := engine.Snapshot{Time: 1.5, BodyCount: 1, Bodies: []engine.BodyState{{ID: "sun"}}}
	data, err := encodeSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("envelope not json: %v", err)
	}
	if env.Type != "snapshot" {
		t.Errorf("type: got %q, expected snapshot", env.Type)
	}
	var got engine.Snapshot
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("payload not a snapshot: %v", err)
	}
	if got.Time != 1.5 || got.BodyCount != 1 {
		t.Errorf("payload mangled: %+v", got)
	}
}

func TestEndToEndWebsocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := NewCollector()
	eng := engine.New(engine.Config{
		DefaultG:     1.0,
		TickRate:     time.Millisecond,
		TickObserver: collector.ObserveTick,
	})
	srv := New(eng, collector, 1000)

	go eng.Run(ctx)
	go srv.Broadcast(ctx)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	init := `{"type":"init","data":{"bodies":[` +
		`{"id":"star","mass":1000},` +
		`{"id":"planet","mass":1,"position":{"x":20},"velocity":{"y":7}}` +
		`],"g":1,"timeScale":1}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(init)); err != nil {
		t.Fatalf("write init: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("snapshot envelope: %v", err)
	}
	if env.Type != "snapshot" {
		t.Fatalf("expected snapshot, got %q", env.Type)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("snapshot payload: %v", err)
	}
	if snap.BodyCount != 2 {
		t.Errorf("body count: got %d, expected 2", snap.BodyCount)
	}
}
