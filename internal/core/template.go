package core

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ExecuteTemplate renders content with the given data, usually the
// *SystemContext. missingkey=zero lets optional variables resolve to their
// zero value, which plays well with Sprig's 'default'; use Sprig's
// 'required' for mandatory ones.
func ExecuteTemplate(content string, data interface{}) (string, error) {
	tmpl, err := template.New("settle").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
