package format

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/vicut/vicut/record"
)

// renderJSON encodes recs as a JSON array of objects, one object per record,
// keyed by record.Record.Key (explicit names first, field_N otherwise),
// per §4.8's "JSON (array of objects)".
func renderJSON(recs []record.Record) (string, error) {
	arr := "[]"
	for _, rec := range recs {
		obj := "{}"
		for i, f := range rec {
			var err error
			obj, err = sjson.Set(obj, rec.Key(i), f.Text)
			if err != nil {
				return "", errors.Wrap(newError(KindEncodeError, rec.Key(i), err.Error()), "encode field")
			}
		}
		var err error
		arr, err = sjson.SetRaw(arr, "-1", obj)
		if err != nil {
			return "", errors.Wrap(newError(KindEncodeError, "-1", err.Error()), "append record")
		}
	}
	if !gjson.Valid(arr) {
		return "", newError(KindEncodeError, arr, "encoder produced malformed JSON")
	}
	return arr, nil
}
