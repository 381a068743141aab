package source

import (
	"context"
	"encoding/json"
	"os"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
)

// File reads unit records from a JSON array, as written by the json
// export of a table:
//
//	[{"id": 1, "name": "HQ", "abbrev": "HQ", "unit_type": "Command", "parent_id": null}]
type File struct {
	Path string
}

// Describe implements [Describer].
func (f *File) Describe() string { return "file:" + f.Path }

// Fetch implements [Source].
func (f *File) Fetch(ctx context.Context) ([]org.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "read %s", f.Path)
	}
	return Decode(data)
}

// Decode parses a JSON array of unit records.
func Decode(data []byte) ([]org.UnitRecord, error) {
	var records []org.UnitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode unit records")
	}
	return records, nil
}

var _ Source = (*File)(nil)
