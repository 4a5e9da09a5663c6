package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type outputOptions struct {
	Format string
	Query  string
}

// table is the typed tabular rendering of a result.
type table struct {
	Headers []string
	Rows    [][]string
}

// newFlagSet returns a pflag set that already carries -o and --query.
func newFlagSet(name string, errOut io.Writer) (*pflag.FlagSet, *outputOptions) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	opts := &outputOptions{}
	fs.StringVarP(&opts.Format, "output", "o", formatTable, "Output format: table, json or yaml")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON result")
	return fs, opts
}

func (o *outputOptions) validate() error {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	switch o.Format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unsupported output format %q (table, json or yaml)", o.Format)
	}
	if q := strings.TrimSpace(o.Query); q != "" {
		if _, err := jmespath.Compile(q); err != nil {
			return fmt.Errorf("invalid --query: %w", err)
		}
	}
	return nil
}

// render writes value in the requested format. The typed table is used only when no
// query reshapes the data; otherwise the query result is tabulated generically.
func render(w io.Writer, opts outputOptions, value any, typed table) error {
	if opts.Format == formatTable && strings.TrimSpace(opts.Query) == "" {
		return writeTable(w, typed)
	}

	doc, err := toDocument(value)
	if err != nil {
		return err
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		if doc, err = jmespath.Search(q, doc); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}

	switch opts.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTable(w, genericTable(doc))
	}
}

// toDocument round-trips value through JSON so queries see the wire field names.
func toDocument(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return doc, nil
}

// genericTable tabulates a decoded JSON document: a list of objects becomes one row
// per object with the union of keys as columns, an object becomes KEY/VALUE rows,
// and anything else a single VALUE cell.
func genericTable(doc any) table {
	switch v := doc.(type) {
	case []any:
		keys := map[string]struct{}{}
		objects := true
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				objects = false
				break
			}
			for k := range m {
				keys[k] = struct{}{}
			}
		}
		if !objects {
			t := table{Headers: []string{"VALUE"}}
			for _, item := range v {
				t.Rows = append(t.Rows, []string{cell(item)})
			}
			return t
		}
		headers := sortedKeys(keys)
		t := table{Headers: make([]string, len(headers))}
		for i, h := range headers {
			t.Headers[i] = strings.ToUpper(h)
		}
		for _, item := range v {
			m, _ := item.(map[string]any)
			row := make([]string, len(headers))
			for i, h := range headers {
				row[i] = cell(m[h])
			}
			t.Rows = append(t.Rows, row)
		}
		return t
	case map[string]any:
		keys := map[string]struct{}{}
		for k := range v {
			keys[k] = struct{}{}
		}
		t := table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range sortedKeys(keys) {
			t.Rows = append(t.Rows, []string{k, cell(v[k])})
		}
		return t
	default:
		return table{Headers: []string{"VALUE"}, Rows: [][]string{{cell(v)}}}
	}
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64, bool:
		return fmt.Sprint(x)
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(raw)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeTable(w io.Writer, t table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(t.Headers) > 0 {
		if err := writef(tw, "%s\n", strings.Join(t.Headers, "\t")); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := writef(tw, "%s\n", strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
