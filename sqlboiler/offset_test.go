package sqlboiler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/offset"
	"github.com/nrfta/pagedview/sqlboiler"
)

var _ = Describe("OffsetToQueryMods", func() {
	Describe("Basic Functionality", func() {
		It("should skip OFFSET on the first page", func() {
			mods := sqlboiler.OffsetToQueryMods(offset.New(pagedview.PageRequest{Page: 1, Limit: 10}), nil)

			Expect(mods).To(HaveLen(1))
			Expect(modTypeName(mods[0])).To(Equal("qm.limitQueryMod"))
		})

		It("should add OFFSET mod", func() {
			mods := sqlboiler.OffsetToQueryMods(offset.New(pagedview.PageRequest{Page: 3, Limit: 10}), nil)

			Expect(mods).To(HaveLen(2))
			Expect(modTypeName(mods[0])).To(Equal("qm.offsetQueryMod"))
			Expect(modTypeName(mods[1])).To(Equal("qm.limitQueryMod"))
		})

		It("should return empty mods for a zero paginator", func() {
			Expect(sqlboiler.OffsetToQueryMods(offset.Paginator{}, nil)).To(BeEmpty())
		})

		It("should combine all mods together", func() {
			mods := sqlboiler.OffsetToQueryMods(
				offset.New(pagedview.PageRequest{Page: 3, Limit: 10}),
				[]sqlboiler.OrderBy{
					{Column: "creation_time", Desc: true},
					{Column: "public_id", Desc: true},
				},
			)

			Expect(mods).To(HaveLen(3))
			Expect(modTypeName(mods[0])).To(Equal("qm.offsetQueryMod"))
			Expect(modTypeName(mods[1])).To(Equal("qm.limitQueryMod"))
			Expect(modTypeName(mods[2])).To(Equal("qm.orderByQueryMod"))
		})
	})
})
