// Command varviper renders a snapshot of named values into an interactive
// HTML viewer and opens it in the default browser.
//
// Usage:
//
//	varviper snapshot.json        # render a JSON snapshot
//	varviper snapshot.yaml        # render a YAML snapshot
//	varviper -o out.html data.json # write to a path instead of opening
//	varviper                      # no snapshot: render built-in demo data
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	varviper "github.com/noodlewarehouse-wq/var-viper"
)

func main() {
	os.Exit(run())
}

func run() int {
	var flagOut string
	flag.StringVar(&flagOut, "o", "", "write the document to this path instead of opening a browser")
	flag.Parse()

	var vars []varviper.NamedValue
	switch flag.NArg() {
	case 0:
		fmt.Fprintln(os.Stderr, "No snapshot provided. Running in Demo Mode...")
		vars = demoSnapshot()
	case 1:
		var err error
		vars, err = loadSnapshot(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "varviper: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: varviper [-o out.html] [snapshot.(json|yaml)]")
		return 2
	}

	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "varviper: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := varviper.Assemble(vars).WriteHTML(f); err != nil {
			fmt.Fprintf(os.Stderr, "varviper: %v\n", err)
			return 1
		}
		return 0
	}

	if err := varviper.Show(vars); err != nil {
		fmt.Fprintf(os.Stderr, "varviper: %v\n", err)
		return 1
	}
	return 0
}

func loadSnapshot(path string) ([]varviper.NamedValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return varviper.DecodeYAMLSnapshot(data)
	default:
		return varviper.DecodeJSONSnapshot(data)
	}
}

// demoSnapshot mirrors the classic demo: a random table, numeric and mixed
// lists, a scalar, a string, and a small config map.
func demoSnapshot() []varviper.NamedValue {
	cols := []string{"A", "B", "C", "D", "E"}
	rows := make([][]string, 15)
	for r := range rows {
		row := make([]string, len(cols))
		for c := range row {
			row[c] = fmt.Sprintf("%.4f", rand.Float64()*100)
		}
		rows[r] = row
	}
	return []varviper.NamedValue{
		{Name: "df", TypeName: "table", Value: varviper.Table{Columns: cols, Rows: rows}},
		{Name: "my_list", TypeName: "list", Value: varviper.Sequence{Items: []varviper.Value{
			varviper.Scalar{Value: int64(10)},
			varviper.Scalar{Value: int64(5)},
			varviper.Scalar{Value: int64(8)},
			varviper.Scalar{Value: int64(12)},
			varviper.Scalar{Value: int64(-3)},
		}}},
		{Name: "mixed", TypeName: "list", Value: varviper.Sequence{Items: []varviper.Value{
			varviper.Scalar{Value: int64(1)},
			varviper.Text{Value: "A"},
			varviper.Scalar{Value: int64(2)},
		}}},
		{Name: "simple", TypeName: "float", Value: varviper.Scalar{Value: 42.5}},
		{Name: "txt", TypeName: "string", Value: varviper.Text{Value: "Hello Var Viper"}},
		{Name: "config", TypeName: "map", Value: varviper.Mapping{
			Keys:   []string{"Settings"},
			Values: []varviper.Value{varviper.Text{Value: "Monokai"}},
		}},
	}
}
