package saver

import (
	"encoding/json"
	"os"

	"polybars/internal/model"
)

// JSONExporter writes an indented array of bars.
type JSONExporter struct{}

func (JSONExporter) Extension() string { return "json" }

func (JSONExporter) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(toRows(bars))
}
