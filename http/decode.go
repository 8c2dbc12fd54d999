package http

import (
	"errors"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	// DecodeErrorCode is the fixed diagnostic code of every DecodeError.
	DecodeErrorCode = 501

	// DecodeErrorMessage is the fixed diagnostic message of every DecodeError.
	DecodeErrorMessage = "error occurred in JSON parsing"
)

var (
	errMalformedJSON = errors.New("malformed JSON document")
	errInvalidUTF8   = errors.New("JSON document is not valid UTF-8")
	errScalarRoot    = errors.New("JSON root is neither an object nor an array")
)

// DecodeJSON classifies data as a JSON document. Any value is accepted as
// the root during parsing, but only objects and arrays produce a success.
func DecodeJSON(data []byte) Outcome {
	if !gjson.ValidBytes(data) {
		return newDecodeError(errMalformedJSON)
	}
	// gjson does not check the bytes inside strings
	if !utf8.Valid(data) {
		return newDecodeError(errInvalidUTF8)
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsObject():
		fields, _ := root.Value().(map[string]interface{})
		if fields == nil {
			fields = map[string]interface{}{}
		}
		return SuccessMap{Fields: fields}
	case root.IsArray():
		items, _ := root.Value().([]interface{})
		if items == nil {
			items = []interface{}{}
		}
		return SuccessList{Items: items}
	default:
		return newDecodeError(errScalarRoot)
	}
}

func newDecodeError(cause error) DecodeError {
	return DecodeError{
		Code:    DecodeErrorCode,
		Message: DecodeErrorMessage,
		Cause:   cause,
	}
}

// decodeOutcome pipes SuccessBytes through DecodeJSON and passes every
// other outcome through unchanged.
func decodeOutcome(out Outcome) Outcome {
	if raw, ok := out.(SuccessBytes); ok {
		return DecodeJSON(raw.Data)
	}
	return out
}
