package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/wesleyorama2/courier/http"
)

// Formatter is responsible for formatting requests and outcomes in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  SchemeFor(noColor),
	}
}

// FormatRequest formats a request for display
func (f *Formatter) FormatRequest(req *http.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.scheme.Method.Sprint(req.Method()),
		f.scheme.URL.Sprint(req.URL())))

	headers := req.Headers()
	if f.Verbose || len(headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), headers[key]))
		}
	}

	if body := req.Body(); len(body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(body)))
		buf.WriteString("\n")
	}

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  Timeout: %s\n", req.Timeout()))
	}

	return buf.String()
}

// FormatOutcome formats a dispatch outcome for display
func (f *Formatter) FormatOutcome(out http.Outcome, notes Annotations) string {
	var buf strings.Builder

	switch o := out.(type) {
	case http.SuccessBytes:
		f.writeStatus(&buf, f.scheme.StatusOK, "200 OK", http.Kind(out))
		writeBody(&buf, o.Data)
	case http.SuccessMap:
		f.writeStatus(&buf, f.scheme.StatusOK, "200 OK", fmt.Sprintf("map, %d fields", len(o.Fields)))
		writeValue(&buf, o.Fields)
	case http.SuccessList:
		f.writeStatus(&buf, f.scheme.StatusOK, "200 OK", fmt.Sprintf("list, %d items", len(o.Items)))
		writeValue(&buf, o.Items)
	case http.HTTPStatusError:
		c := f.scheme.StatusError
		if o.Code < 400 {
			c = f.scheme.StatusWarn
		}
		f.writeStatus(&buf, c, fmt.Sprintf("%d", o.Code), http.Kind(out))
		writeBody(&buf, o.Body)
	default:
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.scheme.StatusError.Sprint(http.Err(out))))
	}

	f.writeAnnotations(&buf, notes)
	return buf.String()
}

func (f *Formatter) writeStatus(buf *strings.Builder, c *color.Color, status, detail string) {
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%s)\n", c.Sprint(status), detail))
}

func (f *Formatter) writeAnnotations(buf *strings.Builder, notes Annotations) {
	if len(notes.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, name := range sortedKeys(notes.Extracted) {
			buf.WriteString(fmt.Sprintf("    %s = %s\n", f.scheme.Highlight.Sprint(name), notes.Extracted[name]))
		}
	}
	if notes.ExtractError != nil {
		buf.WriteString(fmt.Sprintf("  %s extract: %v\n", WarningIcon(f.NoColor), notes.ExtractError))
	}
	if notes.SchemaRun {
		if notes.SchemaError == nil {
			buf.WriteString(fmt.Sprintf("  %s schema valid\n", SuccessIcon(f.NoColor)))
		} else {
			for _, msg := range schemaMessages(notes.SchemaError) {
				buf.WriteString(fmt.Sprintf("  %s schema: %s\n", ErrorIcon(f.NoColor), msg))
			}
		}
	}
}

func writeBody(buf *strings.Builder, body []byte) {
	if len(body) == 0 {
		return
	}
	buf.WriteString("  Body:\n")
	buf.WriteString(formatJSONString(string(body)))
	buf.WriteString("\n")
}

func writeValue(buf *strings.Builder, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		buf.WriteString(fmt.Sprintf("  Body: %v\n", v))
		return
	}
	writeBody(buf, data)
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
