package pagedview

import (
	"encoding/json"

	"github.com/friendsofgo/errors"
)

// BuildResponse creates a PageResponse from a slice of backend items.
// Each item is transformed and then JSON-encoded into a Row.
//
// Type parameters:
//   - From: Source type (e.g., SQLBoiler model, database row)
//   - To: The record shape the table sees
//
// Example usage:
//
//	resp, err := pagedview.BuildResponse(dbObjects, total,
//	    func(o *models.Object) (*ObjectRow, error) {
//	        return toObjectRow(o)
//	    },
//	)
func BuildResponse[From any, To any](
	items []From,
	total int64,
	transform func(From) (To, error),
) (*PageResponse, error) {
	resp := &PageResponse{
		Results: make([]Row, 0, len(items)),
		Total:   int(total),
	}

	for i, item := range items {
		transformed, err := transform(item)
		if err != nil {
			return nil, errors.Wrapf(err, "transform item at index %d", i)
		}

		data, err := json.Marshal(transformed)
		if err != nil {
			return nil, errors.Wrapf(err, "encode item at index %d", i)
		}
		resp.Results = append(resp.Results, Row(data))
	}

	return resp, nil
}

// Identity is a BuildResponse transform that keeps items as they are.
func Identity[T any](item T) (T, error) {
	return item, nil
}
