package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/fluxcap/internal/logic"
	"github.com/sweeney/fluxcap/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateClass": func(s logic.State) string {
		switch s {
		case logic.StateRunning:
			return "running"
		case logic.StateFlashing:
			return "flashing"
		case logic.StateStopped:
			return "stopped"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Flux Capacitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.running { color: green; font-weight: bold; }
.flashing { color: orange; font-weight: bold; }
.stopped { color: #888; }
.unknown { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Flux Capacitor</h1>

<h2>Engine</h2>
<table>
<tr><th>State</th><td class="{{stateClass .Engine.State}}">{{if .Engine.State}}{{.Engine.State}}{{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Level</th><td>{{.Engine.Level}} / {{.MaxLevel}}</td></tr>
<tr><th>Lights</th><td>{{.Engine.LightCount}}</td></tr>
<tr><th>Rotation</th><td>{{.Engine.Rotation}}</td></tr>
<tr><th>Central</th><td>{{.Engine.CentralBrightness}}</td></tr>
<tr><th>Ticks</th><td>{{.Engine.Ticks}}</td></tr>
<tr><th>Flashes</th><td>{{.Engine.Flashes}}</td></tr>
<tr><th>Sequence</th><td>{{if .Phase}}{{.Phase}}{{else}}idle{{end}} (run {{.Runs}})</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}none{{end}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Started</th><td>{{.Counts.Started}}</td></tr>
<tr><th>Stopped</th><td>{{.Counts.Stopped}}</td></tr>
<tr><th>Level</th><td>{{.Counts.Level}}</td></tr>
<tr><th>Flash start</th><td>{{.Counts.FlashStart}}</td></tr>
<tr><th>Flash end</th><td>{{.Counts.FlashEnd}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Driver</th><td>{{.Config.Driver}} {{.Config.Pins}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Step</th><td>{{.Config.StepMs}}ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Rest</th><td>{{if eq .Config.RestMs 0}}disabled{{else}}{{.Config.RestMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime   time.Duration
		MaxLevel int
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		MaxLevel: logic.MaxLevel,
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
