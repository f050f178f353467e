package markup

import (
	"bytes"
	"fmt"
	"html/template"

	"srttranslate/internal/subtitle"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta http-equiv="X-UA-Compatible" content="IE=edge">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.RunID}}</title>
</head>
<body>
  <div id="` + RunIDElementID + `">{{.RunID}}</div>
{{- range .Entries}}
  <br>
  <br>
  <div class="` + EntryClass + `">
    <div class="number">{{.Index}}</div>
    <div class="time">{{.Timing}}</div>
    <div class="text">{{.Text}}</div>
  </div>
  <br>
  <br>
{{- end}}
</body>
</html>
`))

type pageData struct {
	RunID   string
	Entries subtitle.Document
}

// Render produces the HTML page for doc tagged with runID. Entries are
// emitted in document order; text is HTML-escaped.
func Render(doc subtitle.Document, runID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{RunID: runID, Entries: doc}); err != nil {
		return nil, fmt.Errorf("render markup: %w", err)
	}
	return buf.Bytes(), nil
}
