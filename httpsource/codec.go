package httpsource

import (
	"net/url"
	"strconv"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/query"
)

// Query parameter names of a page request.
const (
	ParamFilter = "filter"
	ParamLimit  = "limit"
	ParamSort   = "sort"
	ParamOrder  = "order"
	ParamPage   = "page"
)

// EncodeRequest turns req into query parameters. The filter travels as a
// JSON array of extended JSON aggregation stages and is omitted when nil.
func EncodeRequest(req pagedview.PageRequest) (url.Values, error) {
	v := url.Values{}

	if req.Filter != nil {
		filter, err := query.MarshalPipeline(query.Pipeline(req.Filter))
		if err != nil {
			return nil, errors.Wrap(err, "encode filter")
		}
		v.Set(ParamFilter, string(filter))
	}

	v.Set(ParamLimit, strconv.Itoa(req.Limit))
	if req.Sort != "" {
		v.Set(ParamSort, req.Sort)
	}
	v.Set(ParamOrder, strconv.Itoa(int(req.Order.Normalize())))
	v.Set(ParamPage, strconv.Itoa(req.Page))

	return v, nil
}

// DecodeRequest is the inverse of EncodeRequest. Missing numbers decode to
// zero, leaving defaults to the serving side.
func DecodeRequest(v url.Values) (pagedview.PageRequest, error) {
	var req pagedview.PageRequest

	if raw := v.Get(ParamFilter); raw != "" {
		p, err := query.UnmarshalPipeline([]byte(raw))
		if err != nil {
			return req, errors.Wrap(err, "decode filter")
		}
		if req.Filter, err = query.FromPipeline(p); err != nil {
			return req, errors.Wrap(err, "decode filter")
		}
	}

	var err error
	if req.Limit, err = atoi(v, ParamLimit); err != nil {
		return req, err
	}
	if req.Page, err = atoi(v, ParamPage); err != nil {
		return req, err
	}
	if req.Order, err = pagedview.ParseOrder(v.Get(ParamOrder)); err != nil {
		return req, err
	}
	req.Sort = v.Get(ParamSort)

	return req, nil
}

func atoi(v url.Values, key string) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
