package memsource_test

import (
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/memsource"
	"github.com/nrfta/pagedview/query"
)

func objects(n int) []pagedview.Row {
	rows := make([]pagedview.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, pagedview.Row(fmt.Sprintf(
			`{"public_id":%d,"type_id":%d,"fields":{"hostname":"srv-%02d"},"object_information":{"active":%t}}`,
			i, i%3, i, i%2 == 0,
		)))
	}
	return rows
}

func ids(resp *pagedview.PageResponse) []int64 {
	out := make([]int64, 0, len(resp.Results))
	for _, row := range resp.Results {
		out = append(out, gjson.GetBytes(row, "public_id").Int())
	}
	return out
}

var _ = Describe("Source", func() {
	var (
		ctx    context.Context
		source *memsource.Source
	)

	BeforeEach(func() {
		ctx = context.Background()
		source = memsource.New(objects(57))
	})

	It("pages rows with the total", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 3, Limit: 25})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Total).To(Equal(57))
		Expect(ids(resp)).To(Equal([]int64{51, 52, 53, 54, 55, 56, 57}))
	})

	It("defaults the page size", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Results).To(HaveLen(10))
	})

	It("returns no rows past the last page", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 9, Limit: 25})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Results).To(BeEmpty())
		Expect(resp.Total).To(Equal(57))
	})

	It("sorts descending", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 3, Sort: "public_id", Order: pagedview.Descending})

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(resp)).To(Equal([]int64{57, 56, 55}))
	})

	It("keeps insertion order for ties", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 4, Sort: "type_id"})

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(resp)).To(Equal([]int64{3, 6, 9, 12}))
	})

	It("sorts on nested paths", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 1, Sort: "fields.hostname", Order: pagedview.Descending})

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(resp)).To(Equal([]int64{57}))
	})

	It("filters before paging", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{
			Limit:  5,
			Filter: query.And(query.Eq("object_information.active", true), query.Search("SRV-1", "fields.hostname")),
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Total).To(Equal(5))
		Expect(ids(resp)).To(Equal([]int64{10, 12, 14, 16, 18}))
	})

	It("rejects oversized pages", func() {
		_, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 5000})
		Expect(err).To(BeAssignableToTypeOf(&pagedview.PageSizeError{}))
	})

	It("honours a cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := source.FetchPage(cancelled, pagedview.PageRequest{})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("returns copies of the held rows", func() {
		resp, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 1})
		Expect(err).ToNot(HaveOccurred())
		resp.Results[0][0] = '['

		again, err := source.FetchPage(ctx, pagedview.PageRequest{Limit: 1})
		Expect(err).ToNot(HaveOccurred())
		Expect(gjson.ValidBytes(again.Results[0])).To(BeTrue())
	})

	It("adds and replaces rows", func() {
		source.Add(pagedview.Row(`{"public_id":58}`))
		Expect(source.Len()).To(Equal(58))

		source.Replace(objects(2))
		Expect(source.Len()).To(Equal(2))
	})

	Describe("Decode", func() {
		It("reads a JSON array", func() {
			rows, err := memsource.Decode(strings.NewReader(`[{"a":1},{"a":2}]`))

			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("reads a page object", func() {
			rows, err := memsource.Decode(strings.NewReader(`{"results":[{"a":1}],"total":1}`))

			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(string(rows[0])).To(MatchJSON(`{"a":1}`))
		})

		It("rejects malformed input", func() {
			_, err := memsource.Decode(strings.NewReader(`{"a":`))
			Expect(err).To(MatchError(ContainSubstring("decode rows")))
		})
	})
})
