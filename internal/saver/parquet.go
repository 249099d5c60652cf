package saver

import (
	"github.com/parquet-go/parquet-go"

	"polybars/internal/model"
)

// ParquetExporter writes Parquet with vw and n as optional columns.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string { return "parquet" }

func (ParquetExporter) Save(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, toRows(bars))
}
