package integration_test

import (
	"net/url"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/httpsource"
	"github.com/nrfta/pagedview/query"
	"github.com/nrfta/pagedview/sqlboiler"
	"github.com/nrfta/pagedview/tests/models"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var maliciousInputs = []string{
	"'; DROP TABLE objects; --",
	"1' OR '1'='1",
	"1; DELETE FROM objects WHERE public_id=1",
	"UNION SELECT * FROM user_settings",
	"' OR 1=1 --",
	"admin'--",
	"1' UNION SELECT NULL, NULL--",
	`" OR ""="`,
	"public_id\" DESC; DROP TABLE objects; --",
}

var _ = Describe("Security Tests", func() {
	var source *sqlboiler.Source[*models.Object]

	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.DB)).To(Succeed())
		Expect(SeedObjects(ctx, container.DB, 100)).To(Succeed())

		source = newObjectSource()
	})

	AfterEach(func() {
		// the table must survive every attempt
		var count int
		Expect(container.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(100))
	})

	Describe("SQL Injection Protection", func() {
		Context("Sort Names", func() {
			It("should reject every sort name that is not registered", func() {
				for _, malicious := range maliciousInputs {
					_, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1, Limit: 10, Sort: malicious})

					var sortErr *sqlboiler.InvalidSortError
					Expect(err).To(BeAssignableToTypeOf(sortErr), "sort %q", malicious)
				}
			})
		})

		Context("Filter Values", func() {
			It("should bind equality values as arguments", func() {
				for _, malicious := range maliciousInputs {
					resp, err := source.FetchPage(ctx, pagedview.PageRequest{
						Page: 1, Limit: 10, Filter: query.Eq("fields.hostname", malicious),
					})
					Expect(err).ToNot(HaveOccurred(), "value %q", malicious)
					Expect(resp.Total).To(Equal(0), "value %q", malicious)
				}
			})

			It("should bind search terms as quoted patterns", func() {
				for _, malicious := range maliciousInputs {
					resp, err := source.FetchPage(ctx, pagedview.PageRequest{
						Page: 1, Limit: 10, Filter: query.Search(malicious, "fields.hostname", "fields.serial"),
					})
					Expect(err).ToNot(HaveOccurred(), "term %q", malicious)
					Expect(resp.Total).To(Equal(0), "term %q", malicious)
				}
			})

			It("should bind in lists element by element", func() {
				resp, err := source.FetchPage(ctx, pagedview.PageRequest{
					Page: 1, Limit: 10, Filter: query.In("fields.serial", "SN0001", "SN0002' OR '1'='1"),
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Total).To(Equal(1))
			})
		})

		Context("Filter Fields", func() {
			It("should reject every field that is not registered", func() {
				for _, malicious := range maliciousInputs {
					_, err := source.FetchPage(ctx, pagedview.PageRequest{
						Page: 1, Limit: 10, Filter: query.Exists(malicious, true),
					})
					Expect(err).To(HaveOccurred(), "field %q", malicious)
					Expect(err.Error()).To(ContainSubstring("invalid filter field"))
				}
			})
		})

		Context("Query String", func() {
			It("should treat a tampered filter parameter as a decode error", func() {
				values := url.Values{}
				values.Set(httpsource.ParamFilter, `[{"$match":{"public_id":{"$where":"sleep(10)"}}}]`)

				_, err := httpsource.DecodeRequest(values)
				Expect(err).To(HaveOccurred())
			})

			It("should reject pipeline stages other than $match", func() {
				values := url.Values{}
				values.Set(httpsource.ParamFilter, `[{"$lookup":{"from":"user_settings"}}]`)

				_, err := httpsource.DecodeRequest(values)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unsupported pipeline operator"))
			})
		})

		Context("Settings Keys", func() {
			It("should store keys and values verbatim", func() {
				for _, malicious := range maliciousInputs {
					Expect(store.Put(ctx, malicious, []byte(malicious))).To(Succeed())

					value, ok, err := store.Get(ctx, malicious)
					Expect(err).ToNot(HaveOccurred())
					Expect(ok).To(BeTrue())
					Expect(string(value)).To(Equal(malicious))
				}

				var count int
				Expect(container.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_settings").Scan(&count)).To(Succeed())
				Expect(count).To(Equal(len(maliciousInputs)))
			})
		})
	})

	Describe("Input Validation", func() {
		Context("Page Size Limits", func() {
			It("should use the default page size for negative sizes", func() {
				resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1, Limit: -5})
				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Results).To(HaveLen(pagedview.DefaultPageSize))
			})

			It("should use the default page size for zero", func() {
				resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1})
				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Results).To(HaveLen(pagedview.DefaultPageSize))
			})

			It("should enforce maximum page size limits", func() {
				source = newObjectSource(sqlboiler.WithPageConfig[*models.Object](
					pagedview.NewPageConfig().WithMaxSize(50),
				))

				_, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1, Limit: 51})
				Expect(err).To(MatchError("requested page size 51 exceeds maximum allowed page size of 50"))
			})
		})

		Context("Page Numbers", func() {
			It("should treat non-positive pages as the first page", func() {
				for _, p := range []int{0, -1, -1000} {
					resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: p, Limit: 5})
					Expect(err).ToNot(HaveOccurred())
					Expect(publicIDs(resp.Results)).To(Equal(idRange(1, 5)))
				}
			})

			It("should answer huge page numbers with an empty page", func() {
				resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1 << 20, Limit: 100})
				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Results).To(BeEmpty())
				Expect(resp.Total).To(Equal(100))
			})
		})

		Context("Orders", func() {
			It("should treat unknown order values as ascending", func() {
				resp, err := source.FetchPage(ctx, pagedview.PageRequest{
					Page: 1, Limit: 3, Sort: "public_id", Order: pagedview.Order(42),
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(publicIDs(resp.Results)).To(Equal([]int64{1, 2, 3}))
			})
		})
	})

	Describe("Resource Exhaustion", func() {
		It("should cap a request for all records at the maximum page size", func() {
			source = newObjectSource(sqlboiler.WithPageConfig[*models.Object](
				pagedview.NewPageConfig().WithMaxSize(100),
			))

			resp, err := source.FetchPage(ctx, pagedview.PageRequest{Page: 1, Limit: 100})
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Results).To(HaveLen(100))
			Expect(resp.Total).To(Equal(100))
		})
	})
})
