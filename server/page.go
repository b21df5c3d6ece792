package server

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	Slot          string
	Version       string
	Accent        template.CSS
	FeatureToggle bool
	Timestamp     string
}

func (h handlers) Index(w http.ResponseWriter, _ *http.Request) {
	page := indexPage{
		Slot:          strings.ToUpper(h.config.SlotName),
		Version:       h.config.Version(),
		Accent:        template.CSS(h.config.AccentColor()),
		FeatureToggle: h.config.FeatureToggle,
		Timestamp:     h.timestamp(),
	}
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, page)
	if err != nil {
		log.Println("failed to render index page", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(buf.Bytes())
	if err != nil {
		log.Println("failed to write index page", err)
	}
}
