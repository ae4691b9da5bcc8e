package health

import (
	"bytes"
	"html/template"
	"sort"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>WealthDesk · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta http-equiv="refresh" content="30">
  <style>
    body { font-family: system-ui, sans-serif; background: #f8f9fa; color: #173e35; margin: 40px auto; max-width: 900px; padding: 0 20px; }
    h1 { font-weight: 900; letter-spacing: -1px; }
    .issue { color: #b91c1c; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; }
    .card { background: #fff; border-radius: 16px; padding: 24px; box-shadow: 0 10px 40px -20px rgba(0,0,0,.2); }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-weight: 600; }
    .ok { color: #007473; } .err { color: #ef4444; }
    footer { margin-top: 24px; font-size: 13px; color: #64748b; }
  </style>
</head>
<body>
  {{if eq .Status "ok"}}<h1>All Systems Operational</h1>{{else}}<h1 class="issue">System Issues Detected</h1>{{end}}
  <div class="grid">
    <div class="card">
      <div class="label">Traffic</div>
      <div class="row"><span>Requests</span><span>{{.Traffic.TotalRequests}}</span></div>
      <div class="row"><span>Successful</span><span class="ok">{{.Traffic.SuccessCount}}</span></div>
      <div class="row"><span>Failed</span><span class="err">{{.Traffic.FailedCount}}</span></div>
      <div class="row"><span>Success Rate</span><span>{{.Traffic.SuccessRate}}%</span></div>
      <div class="row"><span>Avg Latency</span><span>{{.Traffic.AvgResponseTime}}ms</span></div>
    </div>
    <div class="card">
      <div class="label">Runtime</div>
      <div class="row"><span>Uptime</span><span>{{.Runtime.UptimeSeconds}}s</span></div>
      <div class="row"><span>Heap Used</span><span>{{.Runtime.Memory.HeapUsed}} MB</span></div>
      <div class="row"><span>Goroutines</span><span>{{.Runtime.Goroutines}}</span></div>
      <div class="row"><span>Go</span><span>{{.Runtime.GoVersion}}</span></div>
    </div>
    <div class="card">
      <div class="label">Dependencies</div>
      {{range .Deps}}<div class="row"><span>{{.Name}}</span><span class="{{if .OK}}ok{{else}}err{{end}}">{{.Status}}{{if .PingMs}} · {{.PingMs}}ms{{end}}</span></div>
      {{end}}
    </div>
  </div>
  <footer>Raw data: <a href="/health/json">/health/json</a> · Error log: <a href="/health/errors">/health/errors</a></footer>
</body>
</html>`))

type depRow struct {
	Name   string
	Status string
	PingMs *int64
	OK     bool
}

// RenderDashboardHTML renders the status page for GET /.
func RenderDashboardHTML(health CollectResult) string {
	deps := make([]depRow, 0, len(health.Dependencies))
	for name, d := range health.Dependencies {
		deps = append(deps, depRow{
			Name:   name,
			Status: d.Status,
			PingMs: d.PingMs,
			OK:     d.Status == "connected" || d.Status == "reachable",
		})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	var buf bytes.Buffer
	_ = dashboardTmpl.Execute(&buf, struct {
		CollectResult
		Deps []depRow
	}{health, deps})
	return buf.String()
}
