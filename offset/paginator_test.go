package offset_test

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/offset"
)

var _ = Describe("Paginator", func() {
	Describe("Basic functionality", func() {
		It("uses the default limit when no limit is provided", func() {
			paginator := offset.New(pagedview.PageRequest{})

			Expect(paginator.Limit).To(Equal(10))
			Expect(paginator.Offset).To(Equal(0))
			Expect(paginator.Page).To(Equal(1))
		})

		It("parses the page request correctly", func() {
			paginator := offset.New(pagedview.PageRequest{Page: 3, Limit: 25})

			Expect(paginator.Limit).To(Equal(25))
			Expect(paginator.Offset).To(Equal(50))
		})

		It("caps the limit with the page config", func() {
			paginator := offset.New(pagedview.PageRequest{Page: 2, Limit: 500}, pagedview.NewPageConfig().WithMaxSize(100))

			Expect(paginator.Limit).To(Equal(100))
			Expect(paginator.Offset).To(Equal(100))
		})

		It("treats pages below 1 as the first page", func() {
			paginator := offset.New(pagedview.PageRequest{Page: -4, Limit: 25})

			Expect(paginator.Page).To(Equal(1))
			Expect(paginator.Offset).To(Equal(0))
		})

		It("reports neighbouring pages", func() {
			paginator := offset.New(pagedview.PageRequest{Page: 2, Limit: 25})

			Expect(paginator.HasPreviousPage()).To(BeTrue())
			Expect(paginator.HasNextPage(57)).To(BeTrue())
			Expect(paginator.HasNextPage(50)).To(BeFalse())
		})

		It("builds the page window", func() {
			paginator := offset.New(pagedview.PageRequest{Page: 2, Limit: 25})
			p := paginator.Pager(57, 5)

			Expect(p.Pages).To(Equal([]int{1, 2, 3}))
			Expect(p.StartIndex).To(Equal(25))
			Expect(p.EndIndex).To(Equal(49))
		})

		It("returns the sqlboiler query mods", func() {
			paginator := offset.New(pagedview.PageRequest{Page: 3, Limit: 10})

			mods := paginator.QueryMods()

			qm1 := reflect.TypeOf(mods[0]).String()
			Expect(qm1).To(Equal("qm.offsetQueryMod"))

			qm2 := reflect.TypeOf(mods[1]).String()
			Expect(qm2).To(Equal("qm.limitQueryMod"))

			qm3 := reflect.TypeOf(mods[2]).String()
			Expect(qm3).To(Equal("qm.orderByQueryMod"))

			Expect(paginator.PageMods()).To(HaveLen(2))
		})
	})

	Describe("Order By", func() {
		Describe("Default", func() {
			It("should use `id` for default orderby column", func() {
				sut := offset.New(pagedview.PageRequest{})

				Expect(sut.GetOrderBy()).To(Equal("id"))
			})

			It("should sort the default column descending", func() {
				sut := offset.New(pagedview.PageRequest{Order: pagedview.Descending})

				Expect(sut.GetOrderBy()).To(Equal("id DESC"))
			})
		})

		Describe("Sort column", func() {
			It("should set the Paginator orderBy field", func() {
				sut := offset.New(pagedview.PageRequest{Sort: "public_id", Order: pagedview.Descending})

				Expect(sut.GetOrderBy()).To(Equal("public_id DESC"))
			})

			It("should sort ascending by default", func() {
				sut := offset.New(pagedview.PageRequest{Sort: "public_id"})

				Expect(sut.GetOrderBy()).To(Equal("public_id"))
			})
		})
	})
})
