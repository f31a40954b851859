package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// column is a table column of T.
type column[T any] struct {
	header string
	value  func(T) string
}

// printItems writes items in the selected output format.
func printItems[T any](cli *commandLine, items []T, cols []column[T]) error {
	if cli.format != formatTable {
		return cli.encode(items)
	}

	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, it := range items {
		vals := make([]string, 0, len(cols))
		for _, c := range cols {
			vals = append(vals, c.value(it))
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

// printItem prints a single object, not a list, in json and yaml.
func printItem[T any](cli *commandLine, item T, cols []column[T]) error {
	if cli.format != formatTable {
		return cli.encode(item)
	}
	return printItems(cli, []T{item}, cols)
}

func (cli *commandLine) encode(v interface{}) error {
	if cli.format == formatJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding json")
	}
	enc := yaml.NewEncoder(cli.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return errors.Wrap(enc.Close(), "encoding yaml")
}

// note is only printed along tables, machine readable formats stay parseable.
func (cli *commandLine) note(format string, args ...interface{}) {
	if cli.format == formatTable {
		fmt.Fprintf(cli.out, format+"\n", args...)
	}
}

func itoa(i int) string { return strconv.Itoa(i) }

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
