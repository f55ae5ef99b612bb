package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Format defines the interface used to deliver results to the end user.
type Formatter interface {
	// AddResult is called once per query with either the payload or the error.
	//
	// This function should be safe for concurent use.
	AddResult(query string, data string, err error) error

	// Flush is called when the formatter should finish outputing any data it
	// may have buffered.
	Flush() error
}

// FormatterFactory
type FormatterFactory func(io.Writer) Formatter

// Formatters holds available formatters
var Formatters = map[string]FormatterFactory{
	"text": NewTextFormatter,
	"json": NewJSONFormatter,
}

// TextFormatter prints the result as human readable text.
type TextFormatter struct {
	sync.Mutex
	io.Writer
}

func NewTextFormatter(out io.Writer) Formatter {
	return &TextFormatter{
		Writer: out,
	}
}

func displayQuery(query string) string {
	if query == "" {
		return "(all entities)"
	}
	return query
}

func (f *TextFormatter) AddResult(query string, data string, err error) error {
	f.Lock()
	defer f.Unlock()

	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if err != nil {
		fmt.Fprintf(f.Writer, "%s %s\n\n", yellow(displayQuery(query)+":"), red(err.Error()))
		return nil
	}

	var result struct {
		Columns []Column         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	decoder := json.NewDecoder(strings.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return err
	}

	fmt.Fprintf(f.Writer, "%s %s\n", yellow(displayQuery(query)+":"), pluralize(len(result.Rows), "row"))
	if len(result.Columns) == 0 {
		fmt.Fprintln(f.Writer, "")
		return nil
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for i, c := range result.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c.Name)
	}
	fmt.Fprintln(w)
	for _, row := range result.Rows {
		for i, c := range result.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v, ok := row[c.Name]; ok && v != nil {
				fmt.Fprint(w, v)
			}
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(f.Writer, "")

	return nil
}

func (f *TextFormatter) Flush() error { return nil }

// JSONFormatter prints the result as a JSON object.
type JSONFormatter struct {
	sync.Mutex

	entries []JSONEntry
	encoder *json.Encoder
}

func NewJSONFormatter(out io.Writer) Formatter {
	return &JSONFormatter{
		entries: make([]JSONEntry, 0),
		encoder: json.NewEncoder(out),
	}
}

type JSONEntry struct {
	Query string          `json:"query"`
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

func (f *JSONFormatter) AddResult(query string, data string, err error) error {
	f.Lock()
	defer f.Unlock()

	entry := JSONEntry{Query: query}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	} else {
		entry.Data = json.RawMessage(data)
	}
	f.entries = append(f.entries, entry)

	return nil
}

func (f *JSONFormatter) Flush() error {
	return f.encoder.Encode(&f.entries)
}
