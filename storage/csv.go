package storage

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"pitwall/model"
)

// utf8BOM prefixes the sink file for spreadsheet compatibility.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVFile is the dataset sink and the dashboard's read side: one flat
// UTF-8 file, fully overwritten per run, no append mode, no versioning.
type CSVFile struct {
	path   string
	logger *slog.Logger
}

func NewCSVFile(path string, logger *slog.Logger) *CSVFile {
	return &CSVFile{
		path:   path,
		logger: logger,
	}
}

// Write serializes the table, overwriting any prior file at the path.
// An empty table is refused so a half-finished run can't masquerade as
// "playlist is empty".
func (c *CSVFile) Write(records []model.VideoRecord) error {
	if len(records) == 0 {
		c.logger.Warn("no records to write, keeping existing sink file", slog.String("path", c.path))
		return ErrEmptyDataset
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create sink file: %w", err)
	}

	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("write sink file: %w", err)
	}
	if err := gocsv.Marshal(&records, f); err != nil {
		f.Close()
		return fmt.Errorf("write sink file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close sink file: %w", err)
	}

	c.logger.Info("dataset written", slog.String("path", c.path), slog.Int("records", len(records)))
	return nil
}

// Read loads the full table. Missing files and malformed content surface
// as errors; the dashboard treats them as "render an empty view", never
// as a crash.
func (c *CSVFile) Read() ([]model.VideoRecord, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read sink file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var records []model.VideoRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("parse sink file: %w", err)
	}

	return records, nil
}
