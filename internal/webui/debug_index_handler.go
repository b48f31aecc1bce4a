package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	dataStruct := debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")
	ctx := r.Context()

	var data interface{}
	var title string
	var err error

	switch dataType {
	case "stops":
		data, err = webUI.StopDB.SearchStops(ctx, "", 0)
		title = "Stop index - Stops"
	case "settings":
		data, err = webUI.Store.LoadSettings()
		title = "Settings - " + webUI.Store.SettingsPath()
	case "config":
		data = webUI.Config
		title = "Application config"
	case "tables":
		data, err = webUI.StopDB.Status(ctx)
		title = "Stop index - Status"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stops, settings, config, tables.",
		}
		title = "Choose a data type"
	}

	if err != nil {
		webUI.Logger.Error("debug data unavailable", "dataType", dataType, "error", err)
		data = map[string]string{"error": err.Error()}
	}

	writeDebugData(w, title, data)
}
