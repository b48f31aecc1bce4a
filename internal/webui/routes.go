package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/carris-ui/carris/internal/app"
)

// WebUI serves the /debug/ pages.
type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
