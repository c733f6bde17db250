package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/floor"
)

var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["mood"] = customer.Mood
	fm["secs"] = func(s float64) string { return fmt.Sprintf("%.1fs", s) }
	return fm
}()

const statusTmpl = `Clock {{ secs .Clock }}  seats {{ .FreeSeats }}/{{ len .Seats }} free  queue {{ len .Queue }}  customers {{ len .Customers }}
Arrived {{ .Stats.Arrived }}, seated {{ .Stats.Seated }}, completed {{ .Stats.Completed }}, abandoned {{ .Stats.Abandoned }}, reclaimed {{ .Stats.Reclaimed }}.
{{- if .Stats.Feedback }} Average mood: {{ mood .Stats.Satisfaction }} ({{ printf "%.2f" .Stats.Satisfaction }}).{{ end }}
`

const seatsTmpl = `{{ printf "%-12s %-10s %s" "SEAT" "TABLE" "HOLDER" }}
{{- range .Seats }}
{{ printf "%-12s %-10s" .Id .Table }} {{ if .Occupied }}{{ .Customer | default "?" }}{{ else }}-{{ end }}
{{- end }}
`

const queueTmpl = `{{ if not .Queue }}Nobody is waiting.
{{ else }}{{ len .Queue }} waiting: {{ join ", " .Queue }}
{{ end }}`

const customersTmpl = `{{ if not .Customers }}The café is empty.
{{ else }}{{ printf "%-36s %-12s %-16s %-10s %-10s %s" "ID" "PATRON" "STATE" "SEAT" "ORDER" "WAITED" }}
{{- range .Customers }}
{{ printf "%-36s %-12s %-16s %-10s %-10s" .Id (.Patron | default "-") .State.String (.Seat | default "-") (.Order | default "-") }} {{ secs .Waited }}
{{- end }}
{{ end }}`

var boardTemplates = map[string]*template.Template{
	"status":    template.Must(template.New("status").Funcs(templateFuncs).Parse(statusTmpl)),
	"seats":     template.Must(template.New("seats").Funcs(templateFuncs).Parse(seatsTmpl)),
	"queue":     template.Must(template.New("queue").Funcs(templateFuncs).Parse(queueTmpl)),
	"customers": template.Must(template.New("customers").Funcs(templateFuncs).Parse(customersTmpl)),
}

// ExpandTemplate expands a template string using the provided data.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// Board renders one of the named views of a snapshot: status, seats, queue
// or customers.
func Board(view string, snap floor.Snapshot) (string, error) {
	tmpl, ok := boardTemplates[view]
	if !ok {
		return "", fmt.Errorf("unknown view %q", view)
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, snap)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", view, err)
	}

	return buf.String(), nil
}

// EventLine describes a customer event in one line.
func EventLine(e customer.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%6.1fs] %s", e.At.Seconds(), e.Customer)
	if e.Patron != "" {
		fmt.Fprintf(&b, " (%s)", e.Patron)
	}

	switch e.Kind {
	case customer.EventTransition:
		fmt.Fprintf(&b, " %s -> %s", e.From, e.To)
		if e.Seat != "" {
			fmt.Fprintf(&b, " [%s]", e.Seat)
		}
	case customer.EventOrderPlaced:
		fmt.Fprintf(&b, " orders %s at %s", e.Item, e.Seat)
	case customer.EventOrderServed:
		verdict := "wrong order"
		if e.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(&b, " is served %s (%s)", e.Item, verdict)
	case customer.EventOrderWithdrawn:
		fmt.Fprintf(&b, " gives up on %s", e.Item)
	case customer.EventFeedback:
		fmt.Fprintf(&b, " is %s after waiting %.1fs", e.Mood, e.Waited.Seconds())
	case customer.EventDespawned:
		fmt.Fprintf(&b, " leaves (%s)", e.Reason)
	default:
		fmt.Fprintf(&b, " %s", e.Kind)
	}

	return b.String()
}
