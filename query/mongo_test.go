package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nrfta/pagedview/query"
)

var _ = Describe("Mongo serialization", func() {
	Describe("ToMongo", func() {
		It("should return an empty document for nil", func() {
			Expect(query.ToMongo(nil)).To(Equal(bson.D{}))
		})

		It("should serialize comparisons with operator documents", func() {
			Expect(query.ToMongo(query.Eq("type_id", 4))).To(Equal(bson.D{
				{Key: "type_id", Value: bson.D{{Key: "$eq", Value: 4}}},
			}))
		})

		It("should serialize $in as an array", func() {
			Expect(query.ToMongo(query.In("type_id", 1, 2))).To(Equal(bson.D{
				{Key: "type_id", Value: bson.D{{Key: "$in", Value: bson.A{1, 2}}}},
			}))
		})

		It("should serialize regular expressions as BSON regex values", func() {
			Expect(query.ToMongo(query.Regex("name", "^srv", true))).To(Equal(bson.D{
				{Key: "name", Value: primitive.Regex{Pattern: "^srv", Options: "i"}},
			}))
		})

		It("should serialize logical nodes", func() {
			e := query.Or(query.Eq("a", 1), query.Not(query.Eq("b", 2)))
			Expect(query.ToMongo(e)).To(Equal(bson.D{
				{Key: "$or", Value: bson.A{
					bson.D{{Key: "a", Value: bson.D{{Key: "$eq", Value: 1}}}},
					bson.D{{Key: "$nor", Value: bson.A{
						bson.D{{Key: "b", Value: bson.D{{Key: "$eq", Value: 2}}}},
					}}},
				}},
			}))
		})
	})

	Describe("Pipeline", func() {
		It("should be empty for a nil filter", func() {
			Expect(query.Pipeline(nil)).To(BeEmpty())
		})

		It("should wrap the filter in a $match stage", func() {
			p := query.Pipeline(query.Eq("active", true))
			Expect(p).To(HaveLen(1))
			Expect(p[0][0].Key).To(Equal("$match"))
		})
	})

	Describe("round trip through extended JSON", func() {
		It("should rebuild the same predicate tree", func() {
			e := query.And(
				query.Eq("type_id", int64(4)),
				query.Ne("name", "legacy"),
				query.In("status", "open", "closed"),
				query.Exists("deleted_at", false),
				query.Not(query.Gte("public_id", int64(100))),
				query.Search("srv", "public_id", "fields.hostname"),
			)

			data, err := query.MarshalPipeline(query.Pipeline(e))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(HavePrefix(`[{"$match":`))

			p, err := query.UnmarshalPipeline(data)
			Expect(err).ToNot(HaveOccurred())

			back, err := query.FromPipeline(p)
			Expect(err).ToNot(HaveOccurred())
			Expect(back).To(Equal(e))
		})

		It("should marshal an empty pipeline as an empty array", func() {
			data, err := query.MarshalPipeline(mongo.Pipeline{})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("[]"))
		})

		It("should reject malformed input", func() {
			_, err := query.UnmarshalPipeline([]byte(`{"$match": {}}`))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ParseMongo", func() {
		It("should read plain equality documents", func() {
			e, err := query.ParseMongo(bson.D{{Key: "active", Value: true}, {Key: "type_id", Value: int32(3)}})
			Expect(err).ToNot(HaveOccurred())
			Expect(e).To(Equal(query.And(query.Eq("active", true), query.Eq("type_id", int64(3)))))
		})

		It("should read string $regex operands", func() {
			e, err := query.ParseMongo(bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: "^a"}}}})
			Expect(err).ToNot(HaveOccurred())
			Expect(e).To(Equal(query.Regex("name", "^a", false)))
		})

		It("should reject unsupported operators", func() {
			_, err := query.ParseMongo(bson.D{{Key: "$where", Value: "1"}})
			Expect(err).To(MatchError(ContainSubstring("unsupported operator")))

			_, err = query.ParseMongo(bson.D{{Key: "a", Value: bson.D{{Key: "$elemMatch", Value: bson.D{}}}}})
			Expect(err).To(MatchError(ContainSubstring("unsupported operator")))
		})

		It("should reject non-match pipeline stages", func() {
			_, err := query.FromPipeline(mongo.Pipeline{{{Key: "$limit", Value: 1}}})
			Expect(err).To(MatchError(ContainSubstring("unsupported pipeline operator")))
		})
	})
})
