package api

import (
	"embed"
	"html/template"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"chartURL": func(name, format, season string) string {
		u := url.URL{Path: "/charts/" + name + "." + format}
		if season != "" {
			u.RawQuery = url.Values{"season": {season}}.Encode()
		}
		return u.String()
	},
	"exportURL": func(season string) string {
		return "/export.csv?" + url.Values{"season": {season}}.Encode()
	},
}

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/dashboard.html"),
)
