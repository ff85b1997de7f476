// Command whatifd runs the physics engine behind a websocket endpoint.
// Each client gets its own world: the daemon pushes a JSON snapshot every
// tick and maps inbound JSON commands onto the engine's mutation and
// configuration surface.
package main

import (
	_ "embed"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/setanarut/v"

	whatif "github.com/tBuLi12/what-if-engine"
	"github.com/tBuLi12/what-if-engine/telemetry"
)

//go:embed default_level.yaml
var defaultLevel []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// command is one inbound client message.
type command struct {
	Cmd     string       `json:"cmd"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Radius  float64      `json:"radius"`
	Points  [][2]float64 `json:"points"`
	Value   float64      `json:"value"`
	Enabled bool         `json:"enabled"`
}

type server struct {
	level        whatif.Level
	telemetryDir string
	tickRate     int
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	levelPath := flag.String("level", "", "level file (YAML); built-in level when empty")
	telemetryDir := flag.String("telemetry", "", "telemetry output directory; disabled when empty")
	tickRate := flag.Int("tick-rate", 60, "simulation ticks per second")
	flag.Parse()

	level, err := loadLevel(*levelPath)
	if err != nil {
		slog.Error("loading level", "error", err)
		os.Exit(1)
	}

	srv := &server{level: level, telemetryDir: *telemetryDir, tickRate: *tickRate}
	http.HandleFunc("/ws", srv.handleWS)

	slog.Info("listening", "addr", *addr, "tickRate", *tickRate)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadLevel(path string) (whatif.Level, error) {
	if path == "" {
		return whatif.ParseLevel(defaultLevel)
	}
	return whatif.LoadLevel(path)
}

// handleWS runs one engine per connection: commands in, snapshots out.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	collector, err := telemetry.NewCollector(s.telemetryDir)
	if err != nil {
		slog.Error("telemetry disabled", "error", err)
	}
	defer collector.Close()

	engine := whatif.NewEngine(s.level)

	commands := make(chan command, 64)
	go func() {
		defer close(commands)
		for {
			var cmd command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			commands <- cmd
		}
	}()

	interval := time.Second / time.Duration(s.tickRate)
	dt := float64(interval.Microseconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("client connected", "remote", conn.RemoteAddr())
	for {
		select {
		case cmd, open := <-commands:
			if !open {
				slog.Info("client disconnected", "remote", conn.RemoteAddr())
				return
			}
			apply(engine, cmd)
		case <-ticker.C:
			snapshot := engine.Step(dt)
			collector.Record(engine.Stats())
			if err := conn.WriteJSON(snapshot); err != nil {
				slog.Info("client disconnected", "remote", conn.RemoteAddr())
				return
			}
		}
	}
}

func apply(engine *whatif.Engine, cmd command) {
	switch cmd.Cmd {
	case "add_circle":
		engine.AddCircle(v.Vec{X: cmd.X, Y: cmd.Y}, cmd.Radius)
	case "add_polygon":
		points := make([]v.Vec, len(cmd.Points))
		for i, p := range cmd.Points {
			points[i] = v.Vec{X: p[0], Y: p[1]}
		}
		engine.AddPolygon(points)
	case "erase":
		engine.EraseAt(v.Vec{X: cmd.X, Y: cmd.Y})
	case "hinge":
		engine.AddHinge(v.Vec{X: cmd.X, Y: cmd.Y})
	case "rigid":
		engine.AddRigid(v.Vec{X: cmd.X, Y: cmd.Y})
	case "gravity":
		engine.SetGravityMultiplier(cmd.Value)
	case "restitution":
		engine.SetRestitutionMultiplier(cmd.Value)
	case "friction":
		engine.SetFrictionMultiplier(cmd.Value)
	case "static_friction":
		engine.SetStaticFriction(cmd.Enabled)
	case "dynamic_friction":
		engine.SetDynamicFriction(cmd.Enabled)
	default:
		slog.Warn("unknown command", "cmd", cmd.Cmd)
	}
}
