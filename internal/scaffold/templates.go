// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scaffold

import "text/template"

// LibraryCDNs maps canonical library names to the content-delivery URL the
// renderer-hosting document loads.
var LibraryCDNs = map[string]string{
	"p5.js":        "https://cdn.jsdelivr.net/npm/p5@1.11.10/lib/p5.js",
	"vis-network":  "https://cdn.jsdelivr.net/npm/vis-network@9.1.9/standalone/umd/vis-network.min.js",
	"vis-timeline": "https://cdn.jsdelivr.net/npm/vis-timeline@7.7.3/standalone/umd/vis-timeline-graph2d.min.js",
	"Chart.js":     "https://cdn.jsdelivr.net/npm/chart.js@4.4.4/dist/chart.umd.min.js",
	"Mermaid":      "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js",
	"Plotly":       "https://cdn.plot.ly/plotly-2.35.0.min.js",
	"Leaflet":      "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
}

// LibraryCSS maps library names to an accompanying stylesheet, for the
// libraries that need one.
var LibraryCSS = map[string]string{
	"vis-timeline": "https://cdn.jsdelivr.net/npm/vis-timeline@7.7.3/styles/vis-timeline-graph2d.min.css",
	"Leaflet":      "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css",
}

// htmlData feeds the renderer-hosting document template.
type htmlData struct {
	SimID   string
	Title   string
	Library string
	CDN     string
	CSS     string
}

var htmlTmpl = template.Must(template.New("main.html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="schema" content="https://dmccreary.github.io/intelligent-textbooks/ns/microsim/v1">
    <title>{{.Title}} using {{.Library}}</title>
{{- if .CSS}}
    <link rel="stylesheet" href="{{.CSS}}">
{{- end}}
    <style>
        body { margin: 0px; padding: 0px; font-family: Arial, Helvetica, sans-serif; }
    </style>
    <script src="{{.CDN}}"></script>
    <script src="{{.SimID}}.js"></script>
</head>
<body>
    <main></main>
    <br/>
    <a href=".">Back to Lesson Plan</a>
</body>
</html>
`))

// indexData feeds the entry document template.
type indexData struct {
	SimID      string
	Title      string
	TitleLower string
	Library    string
}

var indexTmpl = template.Must(template.New("index.md").Parse(`---
title: {{.Title}}
description: Interactive {{.Library}} MicroSim for {{.TitleLower}}.
image: /sims/{{.SimID}}/{{.SimID}}.png
og:image: /sims/{{.SimID}}/{{.SimID}}.png
twitter:image: /sims/{{.SimID}}/{{.SimID}}.png
social:
   cards: false
quality_score: 0
---

# {{.Title}}

<iframe src="main.html" height="450px" width="100%" scrolling="no"></iframe>

[Run the {{.Title}} MicroSim Fullscreen](./main.html){ .md-button .md-button--primary }

## About This MicroSim

TODO: Describe what this MicroSim demonstrates.

## How to Use

TODO: Describe how students should interact with this MicroSim.

## Iframe Embed Code

` + "```html" + `
<iframe src="main.html"
        height="450px"
        width="100%"
        scrolling="no"></iframe>
` + "```" + `
`))
