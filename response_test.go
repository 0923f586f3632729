package pagedview_test

import (
	"context"
	"encoding/json"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/pagedview"
)

// Mock database models
type DBObject struct {
	ID     int
	Title  string
	TypeID int
}

// Record shape the table sees
type ObjectRow struct {
	PublicID int    `json:"public_id"`
	Name     string `json:"name"`
	TypeID   int    `json:"type_id"`
}

var _ = Describe("BuildResponse", func() {
	transform := func(db DBObject) (*ObjectRow, error) {
		if db.Title == "invalid" {
			return nil, fmt.Errorf("invalid title: %s", db.Title)
		}
		return &ObjectRow{PublicID: db.ID, Name: db.Title, TypeID: db.TypeID}, nil
	}

	It("should encode every transformed item into a row", func() {
		objects := []DBObject{
			{ID: 1, Title: "srv-web-01", TypeID: 4},
			{ID: 2, Title: "srv-db-01", TypeID: 4},
		}

		resp, err := pagedview.BuildResponse(objects, 57, transform)

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Total).To(Equal(57))
		Expect(resp.Results).To(HaveLen(2))
		Expect(string(resp.Results[0])).To(MatchJSON(`{"public_id":1,"name":"srv-web-01","type_id":4}`))
		Expect(string(resp.Results[1])).To(MatchJSON(`{"public_id":2,"name":"srv-db-01","type_id":4}`))
	})

	It("should handle empty result set", func() {
		resp, err := pagedview.BuildResponse([]DBObject{}, 0, transform)

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Results).To(BeEmpty())
		Expect(resp.Total).To(BeZero())
	})

	It("should propagate transform errors", func() {
		objects := []DBObject{
			{ID: 1, Title: "srv-web-01"},
			{ID: 2, Title: "invalid"},
		}

		resp, err := pagedview.BuildResponse(objects, 2, transform)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("transform item at index 1"))
		Expect(err.Error()).To(ContainSubstring("invalid title"))
		Expect(resp).To(BeNil())
	})

	It("should report values that cannot be encoded", func() {
		_, err := pagedview.BuildResponse([]any{1, make(chan int)}, 2, pagedview.Identity[any])

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("encode item at index 1"))
	})

	It("should decode from the backend envelope", func() {
		var resp pagedview.PageResponse
		err := json.Unmarshal([]byte(`{"results":[{"public_id":7}],"total":1}`), &resp)

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Total).To(Equal(1))
		Expect(string(resp.Results[0])).To(MatchJSON(`{"public_id":7}`))
	})
})

var _ = Describe("FetcherFunc", func() {
	It("should forward the request", func() {
		var got pagedview.PageRequest
		f := pagedview.FetcherFunc(func(_ context.Context, req pagedview.PageRequest) (*pagedview.PageResponse, error) {
			got = req
			return &pagedview.PageResponse{Total: 3}, nil
		})

		resp, err := f.FetchPage(context.Background(), pagedview.PageRequest{Page: 2, Limit: 25})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Total).To(Equal(3))
		Expect(got.Page).To(Equal(2))
		Expect(got.Offset()).To(Equal(25))
	})
})
