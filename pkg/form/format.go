package form

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// OutputFormat selects how a submission is serialized.
type OutputFormat string

const (
	OutputFormatJSON   OutputFormat = "json"
	OutputFormatForm   OutputFormat = "form"
	OutputFormatPretty OutputFormat = "pretty"
)

// ParseOutputFormat accepts json, form, or pretty. Empty defaults to json.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatForm:
		return OutputFormatForm, nil
	case OutputFormatPretty:
		return OutputFormatPretty, nil
	default:
		return "", fmt.Errorf("form: unsupported output format %q", raw)
	}
}

// Encode serializes values. Keys are emitted in sorted order.
func Encode(format OutputFormat, values schema.Values) ([]byte, error) {
	switch format {
	case "", OutputFormatJSON:
		return json.Marshal(values.Payload())
	case OutputFormatForm:
		return []byte(encodeForm(values)), nil
	case OutputFormatPretty:
		return []byte(encodePretty(values)), nil
	default:
		return nil, fmt.Errorf("form: unsupported output format %q", format)
	}
}

// encodeForm writes URL-encoded pairs, using key[] for selection lists.
func encodeForm(values schema.Values) string {
	out := url.Values{}
	for _, id := range values.Keys() {
		v := values[id]
		switch v.Kind() {
		case schema.KindList:
			items := v.Strings()
			if len(items) == 0 {
				out[id+"[]"] = []string{}
				continue
			}
			for _, item := range items {
				out.Add(id+"[]", item)
			}
		case schema.KindBool:
			out.Set(id, fmt.Sprint(v.Bool()))
		case schema.KindText:
			out.Set(id, v.String())
		}
	}
	return out.Encode()
}

func encodePretty(values schema.Values) string {
	var b strings.Builder
	for _, id := range values.Keys() {
		v := values[id]
		switch v.Kind() {
		case schema.KindList:
			items := v.Strings()
			if len(items) == 0 {
				fmt.Fprintf(&b, "%s=[]\n", id)
			}
			for idx, item := range items {
				fmt.Fprintf(&b, "%s[%d]=%s\n", id, idx, item)
			}
		case schema.KindBool:
			fmt.Fprintf(&b, "%s=%t\n", id, v.Bool())
		case schema.KindText:
			fmt.Fprintf(&b, "%s=%s\n", id, v.String())
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
