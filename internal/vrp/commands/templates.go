package commands

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render executes a response template with the Sprig function map, so
// command responses can stamp in the hostname, current time, etc.
func Render(text string, data any) string {
	tmpl, err := template.New("response").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return fmt.Sprintf("Error: Bad response template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error: Bad response template: %v", err)
	}

	return buf.String()
}
