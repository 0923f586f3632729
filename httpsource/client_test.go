package httpsource_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/httpsource"
	"github.com/nrfta/pagedview/internal/fakebackend"
	"github.com/nrfta/pagedview/memsource"
	"github.com/nrfta/pagedview/query"
)

func objectRows(n int) []pagedview.Row {
	out := make([]pagedview.Row, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, pagedview.Row(fmt.Sprintf(
			`{"public_id":%d,"type_id":%d,"fields":{"hostname":"srv-%d"}}`, i, i%4, i,
		)))
	}
	return out
}

var _ = Describe("Client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("against the fake backend", func() {
		var (
			client  *httpsource.Client
			baseURL string
		)

		BeforeEach(func() {
			server := fakebackend.New(nil)
			server.Register("objects", memsource.New(objectRows(57)))
			ts := httptest.NewServer(server.Handler())
			DeferCleanup(ts.Close)
			baseURL = ts.URL

			var err error
			client, err = httpsource.New(baseURL, "objects")
			Expect(err).ToNot(HaveOccurred())
		})

		It("fetches a page", func() {
			resp, err := client.FetchPage(ctx, pagedview.PageRequest{Page: 2, Limit: 25})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Total).To(Equal(57))
			Expect(resp.Results).To(HaveLen(25))
			Expect(string(resp.Results[0])).To(ContainSubstring(`"public_id":26`))
		})

		It("sends the filter", func() {
			resp, err := client.FetchPage(ctx, pagedview.PageRequest{
				Page:   1,
				Limit:  100,
				Filter: query.And(query.Eq("type_id", 0), query.Search("srv-1", "fields.hostname")),
			})

			Expect(err).ToNot(HaveOccurred())
			// srv-12, srv-16
			Expect(resp.Total).To(Equal(2))
		})

		It("returns a StatusError for unknown collections", func() {
			other, err := httpsource.New(baseURL, "reports")
			Expect(err).ToNot(HaveOccurred())
			Expect(other.Endpoint()).To(Equal(baseURL + "/reports"))

			_, err = other.FetchPage(ctx, pagedview.PageRequest{})

			var statusErr *httpsource.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(statusErr.Message).To(Equal("unknown collection reports"))
		})
	})

	Context("against a raw handler", func() {
		serve := func(h http.HandlerFunc) *httpsource.Client {
			ts := httptest.NewServer(h)
			DeferCleanup(ts.Close)
			client, err := httpsource.New(ts.URL+"/api", "objects",
				httpsource.WithHeader("Authorization", "Bearer token"),
				httpsource.WithHTTPClient(ts.Client()),
			)
			Expect(err).ToNot(HaveOccurred())
			return client
		}

		It("builds the request URL and headers", func() {
			var got *http.Request
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				got = r
				fmt.Fprint(w, `{"results":[],"total":0}`)
			})

			_, err := client.FetchPage(ctx, pagedview.PageRequest{Page: 2, Limit: 25, Sort: "public_id", Order: pagedview.Descending})

			Expect(err).ToNot(HaveOccurred())
			Expect(got.Method).To(Equal(http.MethodGet))
			Expect(got.URL.Path).To(Equal("/api/objects"))
			Expect(got.URL.Query().Get("page")).To(Equal("2"))
			Expect(got.URL.Query().Get("order")).To(Equal("-1"))
			Expect(got.Header.Get("Authorization")).To(Equal("Bearer token"))
			Expect(got.Header.Get("Accept")).To(Equal("application/json"))
		})

		It("keeps the message of an error body", func() {
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"missing right: view objects"}`)
			})

			_, err := client.FetchPage(ctx, pagedview.PageRequest{})

			Expect(err).To(MatchError("unexpected status 403: missing right: view objects"))
		})

		It("keeps a plain text error body", func() {
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusBadGateway)
			})

			_, err := client.FetchPage(ctx, pagedview.PageRequest{})

			Expect(err).To(MatchError("unexpected status 502: upstream down"))
		})

		It("fills in missing results", func() {
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"total":0}`)
			})

			resp, err := client.FetchPage(ctx, pagedview.PageRequest{})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Results).ToNot(BeNil())
			Expect(resp.Results).To(BeEmpty())
		})

		It("rejects malformed pages", func() {
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"results":`)
			})
			_, err := client.FetchPage(ctx, pagedview.PageRequest{})
			Expect(err).To(MatchError(ContainSubstring("decode page")))

			client = serve(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"results":[],"total":-1}`)
			})
			_, err = client.FetchPage(ctx, pagedview.PageRequest{})
			Expect(err).To(MatchError("negative total -1"))
		})

		It("honours context cancellation", func() {
			client := serve(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			})

			short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			_, err := client.FetchPage(short, pagedview.PageRequest{})
			Expect(err).To(MatchError(ContainSubstring("context deadline exceeded")))
		})
	})

	It("validates its arguments", func() {
		_, err := httpsource.New("/relative", "objects")
		Expect(err).To(HaveOccurred())

		_, err = httpsource.New("http://cmdb.local", " / ")
		Expect(err).To(HaveOccurred())
	})
})
