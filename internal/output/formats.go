package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/pkg/jsonschema"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.Request) string
	FormatOutcome(out http.Outcome, notes Annotations) string
}

// Annotations carry what the CLI learned about a body after dispatch.
type Annotations struct {
	Extracted    map[string]string
	ExtractError error
	SchemaError  error
	SchemaRun    bool
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	BodySize  int               `json:"bodySize,omitempty" yaml:"bodySize,omitempty"`
	TimeoutMs int64             `json:"timeoutMs" yaml:"timeoutMs"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// OutcomeData represents the structured data of a dispatch outcome
type OutcomeData struct {
	Kind         string            `json:"kind" yaml:"kind"`
	StatusCode   int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Error        string            `json:"error,omitempty" yaml:"error,omitempty"`
	Body         interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Extracted    map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	ExtractError string            `json:"extractError,omitempty" yaml:"extractError,omitempty"`
	SchemaValid  *bool             `json:"schemaValid,omitempty" yaml:"schemaValid,omitempty"`
	SchemaErrors []string          `json:"schemaErrors,omitempty" yaml:"schemaErrors,omitempty"`
	Timestamp    string            `json:"timestamp" yaml:"timestamp"`
}

// NewRequestData captures req for serialization.
func NewRequestData(req *http.Request) RequestData {
	return RequestData{
		Method:    string(req.Method()),
		URL:       req.URL(),
		Headers:   req.Headers(),
		BodySize:  len(req.Body()),
		TimeoutMs: req.Timeout().Milliseconds(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewOutcomeData captures out and its annotations for serialization.
func NewOutcomeData(out http.Outcome, notes Annotations) OutcomeData {
	data := OutcomeData{
		Kind:      http.Kind(out),
		Extracted: notes.Extracted,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	switch o := out.(type) {
	case http.SuccessBytes:
		data.StatusCode = 200
		data.Body = bodyValue(o.Data)
	case http.SuccessMap:
		data.StatusCode = 200
		data.Body = o.Fields
	case http.SuccessList:
		data.StatusCode = 200
		data.Body = o.Items
	case http.HTTPStatusError:
		data.StatusCode = o.Code
		data.Body = bodyValue(o.Body)
	}

	if err := http.Err(out); err != nil {
		data.Error = err.Error()
	}

	if notes.ExtractError != nil {
		data.ExtractError = notes.ExtractError.Error()
	}

	if notes.SchemaRun {
		valid := notes.SchemaError == nil
		data.SchemaValid = &valid
		data.SchemaErrors = append(data.SchemaErrors, schemaMessages(notes.SchemaError)...)
	}

	return data
}

// bodyValue decodes JSON bodies so they nest in structured output and
// keeps anything else as text.
func bodyValue(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	if gjson.ValidBytes(body) {
		return gjson.ParseBytes(body).Value()
	}
	return string(body)
}

func schemaMessages(err error) []string {
	if err == nil {
		return nil
	}
	var ve jsonschema.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, len(ve))
		for i, e := range ve {
			msgs[i] = e.Error()
		}
		return msgs
	}
	return []string{err.Error()}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.Request) string {
	return f.marshal(NewRequestData(req), "request")
}

// FormatOutcome formats an outcome as JSON
func (f *JSONFormatter) FormatOutcome(out http.Outcome, notes Annotations) string {
	return f.marshal(NewOutcomeData(out, notes), "outcome")
}

func (f *JSONFormatter) marshal(v interface{}, what string) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal %s: %s"}`, what, err)
	}
	return string(output) + "\n"
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.Request) string {
	return f.marshal(NewRequestData(req), "request")
}

// FormatOutcome formats an outcome as YAML
func (f *YAMLFormatter) FormatOutcome(out http.Outcome, notes Annotations) string {
	return f.marshal(NewOutcomeData(out, notes), "outcome")
}

func (f *YAMLFormatter) marshal(v interface{}, what string) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s\n", what, err)
	}
	return "---\n" + string(output)
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}
