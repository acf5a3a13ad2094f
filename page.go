package varviper

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ViewerFileName is the well-known name the document is written under in
// the temporary-files location.
const ViewerFileName = "var_viper_view.html"

// SummaryEntry is one sidebar row: the value's name, declared type, and
// short preview. The JSON field names are the contract with the client
// runtime embedded in the document.
type SummaryEntry struct {
	Name     string `json:"id"`
	TypeName string `json:"type"`
	Preview  string `json:"size"`
}

// Document is the final artifact: an ordered summary list for the sidebar
// and a content map from value name to rendered fragment. It is built once
// by [Assemble] and never mutated afterwards.
type Document struct {
	Summary []SummaryEntry
	Content map[string]string
}

// Assemble renders every named value under the per-value byte budget and
// packages the results. Summary order is snapshot order. A value that fails
// to render contributes an error fragment instead of aborting the document.
func Assemble(vars []NamedValue) *Document {
	doc := &Document{
		Summary: make([]SummaryEntry, 0, len(vars)),
		Content: make(map[string]string, len(vars)),
	}
	for _, nv := range vars {
		doc.Summary = append(doc.Summary, SummaryEntry{
			Name:     nv.Name,
			TypeName: nv.TypeName,
			Preview:  Preview(nv.Value),
		})
		doc.Content[nv.Name] = renderValue(nv, targetBytesPerValue)
	}
	return doc
}

// WriteHTML serializes the document into one static HTML page: the summary
// list and content map inlined as JSON next to the interactive runtime
// source. json.Marshal escapes <, >, and & in strings, so the inlined data
// cannot terminate its surrounding script element early.
func (d *Document) WriteHTML(w io.Writer) error {
	summaryJSON, err := json.Marshal(d.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	contentJSON, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	return viewerTmpl.Execute(w, viewerData{
		SummaryJSON: string(summaryJSON),
		ContentJSON: string(contentJSON),
	})
}

// WriteFile writes the document to the well-known path under the system
// temporary directory and returns that path.
func (d *Document) WriteFile() (string, error) {
	path := filepath.Join(os.TempDir(), ViewerFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := d.WriteHTML(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Show assembles the snapshot, writes the document, and opens it in the
// default browser. This is the single render-and-display entry point the
// launcher uses.
func Show(vars []NamedValue) error {
	path, err := Assemble(vars).WriteFile()
	if err != nil {
		return err
	}
	return openBrowser("file://" + path)
}
