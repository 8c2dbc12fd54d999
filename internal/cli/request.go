package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/internal/config"
	"github.com/wesleyorama2/courier/internal/output"
	"github.com/wesleyorama2/courier/pkg/jsonpath"
	"github.com/wesleyorama2/courier/pkg/jsonschema"
)

// addRequestFlags registers the flags shared by get and post.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringArray("extract", []string{}, "Extract a value as name=$.path (can be used multiple times)")
	cmd.Flags().String("schema", "", "JSON Schema file the decoded body must satisfy")
	cmd.Flags().Bool("raw", false, "Print the body without JSON decoding")
}

// parseHeaders turns "Key: Value" flags into a map; later keys win.
func parseHeaders(headers []string) (map[string]string, error) {
	result := make(map[string]string, len(headers))
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", header)
		}
		result[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return result, nil
}

// parsePairs turns name=value flags into a map; later names win.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s value %q (want name=value)", flag, pair)
		}
		result[name] = value
	}
	return result, nil
}

// requestFlags are the per-request output options read from a command.
type requestFlags struct {
	raw     bool
	extract map[string]string
	schema  *jsonschema.Schema
}

func readRequestFlags(cmd *cobra.Command) (requestFlags, error) {
	var rf requestFlags
	rf.raw, _ = cmd.Flags().GetBool("raw")

	extract, _ := cmd.Flags().GetStringArray("extract")
	paths, err := parsePairs("extract", extract)
	if err != nil {
		return rf, err
	}
	rf.extract = paths

	if schemaFile, _ := cmd.Flags().GetString("schema"); schemaFile != "" {
		text, err := os.ReadFile(schemaFile)
		if err != nil {
			return rf, fmt.Errorf("error reading schema file: %w", err)
		}
		rf.schema, err = jsonschema.Compile(string(text))
		if err != nil {
			return rf, err
		}
	}
	return rf, nil
}

// send dispatches req, prints the outcome and returns an error for every
// outcome that is not a success.
func send(cmd *cobra.Command, rt *runtime, req *http.Request, rf requestFlags) error {
	out := cmd.OutOrStdout()
	if rt.cfg.Output == config.OutputText || rt.cfg.Verbose {
		fmt.Fprint(out, rt.formatter.FormatRequest(req))
	}

	rt.ui.NotifyIndicator(true)

	var result http.Outcome
	if rf.raw {
		result = <-rt.client.Dispatch(cmd.Context(), req)
	} else {
		result = <-rt.client.DispatchJSON(cmd.Context(), req)
	}

	// The client hides the indicator itself on failures only
	rt.ui.NotifyIndicator(false)
	rt.ui.Close()

	notes := annotate(result, rf)
	fmt.Fprint(out, rt.formatter.FormatOutcome(result, notes))

	if err := http.Err(result); err != nil {
		return err
	}
	if notes.ExtractError != nil {
		return notes.ExtractError
	}
	if notes.SchemaError != nil {
		return fmt.Errorf("schema validation failed: %w", notes.SchemaError)
	}
	return nil
}

// annotate runs extraction and schema checks against a successful body.
func annotate(result http.Outcome, rf requestFlags) output.Annotations {
	var notes output.Annotations

	var value interface{}
	var body []byte
	switch o := result.(type) {
	case http.SuccessBytes:
		body = o.Data
	case http.SuccessMap:
		value = o.Fields
	case http.SuccessList:
		value = o.Items
	default:
		return notes
	}

	if body == nil && (len(rf.extract) > 0 || rf.schema != nil) {
		body, _ = json.Marshal(value)
	}

	if len(rf.extract) > 0 {
		notes.Extracted, notes.ExtractError = jsonpath.ExtractAll(body, rf.extract)
	}

	if rf.schema != nil {
		notes.SchemaRun = true
		if value != nil {
			notes.SchemaError = rf.schema.ValidateValue(value)
		} else {
			notes.SchemaError = rf.schema.ValidateBytes(body)
		}
	}

	return notes
}
