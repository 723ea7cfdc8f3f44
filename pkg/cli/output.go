package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatAuto picks text on a terminal and JSON otherwise.
	FormatAuto OutputFormat = "auto"
	// FormatText is an aligned table (default on a terminal).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output with a header row.
	FormatCSV OutputFormat = "csv"
)

// Formatter formats command output.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unknown format %q (want auto, text, json or csv)", s))
	}
}

// Resolve turns FormatAuto into a concrete format for w.
func Resolve(format OutputFormat, w io.Writer) OutputFormat {
	if format != FormatAuto {
		return format
	}
	if IsTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TextFormatter renders structs and slices of structs as an aligned table
// with one column per exported field. Other values are printed with %v.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	var b strings.Builder
	if err := f.FormatTo(&b, data); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	header, rows, ok := tabulate(data, humanCell)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}
	return tw.Flush()
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats structs and slices of structs as CSV. The header row
// uses the fields' json names.
type CSVFormatter struct{}

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data any) ([]byte, error) {
	var b strings.Builder
	if err := f.FormatTo(&b, data); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	header, rows, ok := tabulate(data, rawCell)
	if !ok {
		return fmt.Errorf("csv output needs a struct or a slice of structs, got %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format. FormatAuto
// must be resolved first; unknown formats fall back to text.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}

// tabulate flattens a struct, pointer to struct or slice of either into a
// header and string rows. Nil pointers inside a slice are skipped and a nil
// top-level pointer yields no rows.
func tabulate(data any, cell func(reflect.Value) string) ([]string, [][]string, bool) {
	v := reflect.ValueOf(data)
	if !v.IsValid() {
		return nil, nil, false
	}

	var elem reflect.Type
	var items []reflect.Value
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		elem = v.Type().Elem()
		for i := 0; i < v.Len(); i++ {
			items = append(items, v.Index(i))
		}
	default:
		elem = v.Type()
		items = []reflect.Value{v}
	}
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, nil, false
	}

	fields := columns(elem)
	header := make([]string, len(fields))
	for i, fld := range fields {
		header[i] = fld.name
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		if item.Kind() == reflect.Pointer {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		row := make([]string, len(fields))
		for i, fld := range fields {
			row[i] = cell(item.Field(fld.index))
		}
		rows = append(rows, row)
	}
	return header, rows, true
}

type column struct {
	name  string
	index int
}

// columns lists the exported scalar fields of t, named by their json tag.
// Fields tagged json:"-" and nested structs, slices and pointers are skipped.
func columns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || !scalar(f.Type) {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		cols = append(cols, column{name: name, index: i})
	}
	return cols
}

func scalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// rawCell renders a value for machine-readable output.
func rawCell(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

// humanCell renders a value for a terminal, grouping digits of large
// numbers.
func humanCell(v reflect.Value) string {
	if _, ok := v.Interface().(fmt.Stringer); ok {
		return rawCell(v)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return humanize.Comma(v.Int())
	case reflect.Float32, reflect.Float64:
		return humanize.CommafWithDigits(v.Float(), 2)
	}
	return rawCell(v)
}
