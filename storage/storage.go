package storage

import (
	"errors"

	"pitwall/model"
)

// ErrEmptyDataset is returned when a write is refused because the
// in-memory table is empty. The previous sink file, if any, is left
// untouched.
var ErrEmptyDataset = errors.New("dataset is empty, refusing to overwrite sink")

type DatasetWriter interface {
	Write(records []model.VideoRecord) error
}

type DatasetReader interface {
	Read() ([]model.VideoRecord, error)
}
