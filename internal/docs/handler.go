package docs

import (
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

const (
	SpecPath = "/v3/api-docs"
	UIPath   = "/swagger-ui.html"
)

var uiPage = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui" data-url="{{.SpecURL}}"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.onload = function () {
  var el = document.getElementById("swagger-ui");
  window.ui = SwaggerUIBundle({ url: el.dataset.url, domNode: el });
};
</script>
</body>
</html>
`))

// Handler serves the OpenAPI document and a Swagger UI page for it.
type Handler struct {
	spec   []byte
	title  string
	logger *zap.SugaredLogger
}

func NewHandler(logger *zap.SugaredLogger) (*Handler, error) {
	doc := NewDocument()
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &Handler{spec: b, title: doc.Info.Title, logger: logger}, nil
}

func (h *Handler) Spec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}

func (h *Handler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Title, SpecURL string }{h.title, SpecPath}
	if err := uiPage.Execute(w, data); err != nil {
		h.logger.Errorw("render swagger ui", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "render failed")
	}
}
