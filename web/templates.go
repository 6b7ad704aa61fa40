package web

import (
	"fmt"
	"html/template"
	"net/http"
)

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"percent": func(value float64) string { return fmt.Sprintf("%.1f%%", value) },
		"cellClass": func(cell dayCell) string {
			switch {
			case cell.Today:
				return "cell today"
			case cell.Level > 0:
				return fmt.Sprintf("cell level-%d", cell.Level)
			case cell.Passed:
				return "cell passed"
			default:
				return "cell"
			}
		},
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{if eq .Page "profile"}}{{.Username}} — annum{{else}}annum — {{.Stats.Year}}{{end}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      margin: 0;
      font-family: "SF Mono", "Menlo", monospace;
      color: #e8e4da;
      background: #14120f;
    }
    header {
      padding: 18px 26px;
      border-bottom: 1px solid #2c2821;
    }
    header h1 {
      margin: 0;
      font-size: 18px;
      letter-spacing: 0.08em;
      text-transform: lowercase;
    }
    main {
      max-width: 860px;
      margin: 0 auto;
      padding: 26px;
    }
    .stats {
      display: flex;
      gap: 28px;
      margin-bottom: 22px;
    }
    .stat .value {
      font-size: 26px;
      font-weight: 600;
    }
    .stat .label {
      font-size: 12px;
      color: #8e8678;
      text-transform: uppercase;
      letter-spacing: 0.1em;
    }
    .grid {
      display: grid;
      grid-template-columns: repeat(30, 1fr);
      gap: 3px;
      margin: 14px 0 26px;
    }
    .cell {
      aspect-ratio: 1;
      border-radius: 2px;
      background: #26221b;
    }
    .cell.passed { background: #4d463a; }
    .cell.today { background: #e8b24a; }
    .cell.level-1 { background: #2e4431; }
    .cell.level-2 { background: #3e6a44; }
    .cell.level-3 { background: #549c5d; }
    .cell.level-4 { background: #74d07f; }
    h2 {
      font-size: 14px;
      color: #b3a993;
      letter-spacing: 0.06em;
      text-transform: uppercase;
      margin: 26px 0 6px;
    }
    .summary-line {
      font-size: 13px;
      color: #8e8678;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    td {
      padding: 7px 10px;
      border-bottom: 1px solid #26221b;
    }
    td.duration {
      text-align: right;
      color: #b3a993;
      white-space: nowrap;
    }
    .done { color: #6f8f6f; text-decoration: line-through; }
    .error { color: #d08770; font-size: 13px; }
    .missing { color: #8e8678; }
    a { color: #e8b24a; }
  </style>
</head>
<body>
<header><h1><a href="/" style="text-decoration:none;color:inherit">annum</a></h1></header>
<main>
{{if eq .Page "profile"}}
  {{if .NotFound}}
    <p class="missing">No profile named {{.Username}}.</p>
  {{else if .LoadError}}
    <p class="error">{{.LoadError}}</p>
  {{else}}
    <h2>@{{.Username}}</h2>
    {{range .Summaries}}
      <h2>{{.Label}}</h2>
      <p class="summary-line">{{.Total}} across {{.ActiveDays}} active days</p>
      <div class="grid">
        {{range .Cells}}<div class="{{cellClass .}}" title="{{.Date}}"></div>{{end}}
      </div>
    {{end}}
  {{end}}
{{else}}
  <div class="stats">
    <div class="stat"><div class="value">{{.Stats.Year}}</div><div class="label">year</div></div>
    <div class="stat"><div class="value">{{percent .Stats.Percentage}}</div><div class="label">complete</div></div>
    <div class="stat"><div class="value">{{.Stats.DaysPassed}}</div><div class="label">days in</div></div>
    <div class="stat"><div class="value">{{.Stats.DaysRemaining}}</div><div class="label">days left</div></div>
  </div>
  <div class="grid">
    {{range .YearCells}}<div class="{{cellClass .}}"></div>{{end}}
  </div>
  {{if .LogError}}
    <p class="error">{{.LogError}}</p>
  {{else if .Log}}
    <h2>Today</h2>
    <table>
      {{range .Log}}
      <tr>
        <td{{if .Done}} class="done"{{end}}>{{.Title}}</td>
        <td class="duration">{{.Duration}}</td>
      </tr>
      {{end}}
    </table>
  {{end}}
{{end}}
</main>
</body>
</html>
`
