package output

import (
	"bytes"
	"fmt"
	"html/template"
)

// htmlReportTemplate is a self-contained report page: no external assets, so
// the file can be opened straight from disk.
const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>osfund report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
h1 { font-size: 1.4rem; }
.meta { color: #666; margin-bottom: 2rem; }
.project { margin-bottom: 1.5rem; }
.project h2 { font-size: 1.05rem; margin: 0 0 0.25rem 0; }
.project a { color: #0a58ca; text-decoration: none; }
ul { margin: 0.25rem 0 0 1.25rem; padding: 0; }
li { color: #444; }
.version { color: #999; }
.license { color: #999; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Installed open source projects</h1>
<p class="meta">{{.TotalProjects}} projects, {{.TotalPackages}} packages — scanned {{.ScanTimestamp.Format "2006-01-02 15:04 MST"}}</p>
{{range .Projects}}
<div class="project">
<h2>{{.DisplayName}}{{if .RepoURL}} — <a href="{{.RepoURL}}">{{.RepoURL}}</a>{{end}}</h2>
{{if .Funding}}<p>Support: {{range .Funding}}<a href="{{.}}">{{.}}</a> {{end}}</p>{{end}}
<ul>
{{range .Packages}}<li>{{.Name}} <span class="version">{{.Version}}</span> [{{.Manager}}]{{range .Licenses}} <span class="license">{{.}}</span>{{end}}</li>
{{end}}</ul>
</div>
{{end}}
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlReportTemplate))

// RenderHTMLReport renders a report as a standalone HTML page.
func RenderHTMLReport(report *JSONReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}
