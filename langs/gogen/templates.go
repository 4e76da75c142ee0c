package gogen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
)

const generatedHeader = "// Code generated by baserowgen. DO NOT EDIT."

// RuntimeImport is the package generated code builds on.
const RuntimeImport = "github.com/shibukawa/baserowgen/baserow"

var templateFuncs = template.FuncMap{
	"quote":      strconv.Quote,
	"backtick":   func() string { return "`" },
	"lowerFirst": lowerFirst,
	"isEnum":     func(a *AuxType) bool { return a.Kind == AuxEnum },
	"oneLine":    func(s string) string { return strings.Join(strings.Fields(s), " ") },
}

const recordsTemplate = `{{ .Header }}

package {{ .Package }}
{{ if .Tables }}
import "{{ .RuntimeImport }}"
{{ end }}
{{- range $t := .Tables }}
// {{ $t.TypeName }}TableID is the id of table {{ quote $t.TableName }}.
const {{ $t.TypeName }}TableID uint64 = {{ $t.TableID }}

// {{ $t.TypeName }} is a row of table {{ quote $t.TableName }}.
type {{ $t.TypeName }} struct {
	RowID uint64 {{ backtick }}json:"id,omitempty"{{ backtick }}
{{- range $t.Fields }}
	// {{ oneLine .Display }} ({{ .RemoteType }}{{ if .Primary }}, primary{{ end }}{{ if .ReadOnly }}, read-only{{ end }})
	{{ .GoName }} {{ .Mapped.FieldType }} {{ backtick }}json:"{{ .WireTag }},omitzero"{{ backtick }}
{{- end }}
}

// {{ $t.TypeName }}Fields maps wire tags to display names.
var {{ $t.TypeName }}Fields = map[string]string{
{{- range $t.Fields }}
	{{ quote .WireTag }}: {{ quote .Display }},
{{- end }}
}
{{ $ro := $t.ReadOnlyTags }}{{ if $ro }}
var {{ lowerFirst $t.TypeName }}ReadOnly = []string{
{{- range $ro }}
	{{ quote . }},
{{- end }}
}
{{ end }}
func ({{ $t.TypeName }}) StaticTableID() uint64 { return {{ $t.TypeName }}TableID }

func (r {{ $t.TypeName }}) TableID() uint64 { return r.StaticTableID() }

func (r {{ $t.TypeName }}) Identifier() baserow.Identifier {
	return {{ $t.IdentifierExpr }}
}

func ({{ $t.TypeName }}) IdentifierField() string { return {{ quote $t.Primary.WireTag }} }
{{ if $ro }}
func ({{ $t.TypeName }}) ReadOnlyFields() []string { return {{ lowerFirst $t.TypeName }}ReadOnly }
{{ end }}
{{- range $a := $t.AuxTypes }}{{ if isEnum $a }}
// {{ $a.Name }} is an option of field {{ quote $a.FieldName }}.
type {{ $a.Name }} uint64

const (
{{- range $a.Members }}
	{{ .Const }} {{ $a.Name }} = {{ .ID }} // {{ quote .Label }}
{{- end }}
)

var {{ $a.OptionsVar }} = []baserow.SelectOption{
{{- range $a.Members }}
	{ID: {{ .ID }}, Value: {{ quote .Label }}},
{{- end }}
}

func (v {{ $a.Name }}) String() string {
	return baserow.SelectOptionLabel({{ $a.OptionsVar }}, uint64(v))
}

func (v {{ $a.Name }}) MarshalJSON() ([]byte, error) {
	return baserow.EncodeSelectOption(uint64(v))
}

func (v *{{ $a.Name }}) UnmarshalJSON(data []byte) error {
	id, err := baserow.DecodeSelectOption(data, {{ $a.OptionsVar }})
	if err != nil {
		return err
	}
	*v = {{ $a.Name }}(id)
	return nil
}
{{ else }}
// {{ $a.Name }} is a row of table {{ $a.LinkedTableID }} linked from field {{ quote $a.FieldName }}.
type {{ $a.Name }} struct{ baserow.LinkRow }

func ({{ $a.Name }}) LinkedTableID() uint64 { return {{ $a.LinkedTableID }} }
{{ end }}{{ end }}
{{- end }}`

const manifestTemplate = `{{ .Header }}

package {{ .Package }}
{{ if .Imports }}
import (
{{- range .Imports }}
	{{ .Alias }} {{ quote .Path }}
{{- end }}
)
{{ end }}
// GenerationID identifies the run that produced these bindings.
const GenerationID = {{ quote .GenerationID }}

// TableUnit is one generated record type.
type TableUnit struct {
	ID       uint64
	Name     string
	TypeName string
}

// DatabaseUnit is one generated database package.
type DatabaseUnit struct {
	ID      uint64
	Name    string
	Package string
	Tables  []TableUnit
}

// Databases lists every generated package and its tables.
var Databases = []DatabaseUnit{
{{- range .Units }}
	{
		ID:      {{ .DatabaseID }},
		Name:    {{ quote .Database }},
		Package: {{ quote .Package }},
		Tables: []TableUnit{
{{- $unit := . }}
{{- range .Tables }}
			{ID: {{ if $unit.Alias }}{{ $unit.Alias }}.{{ .TypeName }}TableID{{ else }}{{ .TableID }}{{ end }}, Name: {{ quote .TableName }}, TypeName: {{ quote .TypeName }}},
{{- end }}
		},
	},
{{- end }}
}
`

var (
	recordsTmpl  = template.Must(template.New("records").Funcs(templateFuncs).Parse(recordsTemplate))
	manifestTmpl = template.Must(template.New("manifest").Funcs(templateFuncs).Parse(manifestTemplate))
)

// renderGo executes tmpl and gofmts the result.
func renderGo(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s template: %w", ErrGenerateGoCode, tmpl.Name(), err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: format %s: %w", ErrGenerateGoCode, tmpl.Name(), err)
	}
	return src, nil
}
