package pagedview

import "github.com/friendsofgo/errors"

// Order is a sort direction, encoded the way the backend expects it: 1 for
// ascending and -1 for descending.
type Order int

const (
	Ascending  Order = 1
	Descending Order = -1
)

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// Desc reports whether o is descending.
func (o Order) Desc() bool {
	return o == Descending
}

// Normalize maps every value other than Descending onto Ascending.
func (o Order) Normalize() Order {
	if o == Descending {
		return Descending
	}
	return Ascending
}

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder accepts "1", "-1", "asc" and "desc".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "1", "asc", "ASC", "":
		return Ascending, nil
	case "-1", "desc", "DESC":
		return Descending, nil
	}
	return Ascending, errors.Errorf("invalid sort order %q", s)
}

// Sort is the single active sort of a table.
type Sort struct {
	Name  string `json:"name"`
	Order Order  `json:"order"`
}

// IsZero reports whether no sort column is set.
func (s Sort) IsZero() bool {
	return s.Name == ""
}

// WithSort returns a copy of req sorted by name in the given order.
func WithSort(req PageRequest, name string, order Order) PageRequest {
	req.Sort = name
	req.Order = order.Normalize()
	return req
}
