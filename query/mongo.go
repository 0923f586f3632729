package query

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/friendsofgo/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var mongoOps = map[Op]string{
	OpEq:     "$eq",
	OpNe:     "$ne",
	OpGt:     "$gt",
	OpGte:    "$gte",
	OpLt:     "$lt",
	OpLte:    "$lte",
	OpIn:     "$in",
	OpExists: "$exists",
}

// ToMongo serializes e as a MongoDB query document. A nil expression
// yields an empty document.
//
// Regular expressions are emitted as BSON regex values so that they survive
// an extended JSON round trip unchanged:
//
//	Regex("name", "^srv", true) -> {"name": {"$regularExpression": {"pattern": "^srv", "options": "i"}}}
func ToMongo(e Expr) bson.D {
	switch n := e.(type) {
	case nil:
		return bson.D{}
	case Cond:
		value := n.Value
		if n.Operator == OpIn {
			values, _ := n.Value.([]any)
			value = bson.A(values)
		}
		return bson.D{{Key: n.Field, Value: bson.D{{Key: mongoOps[n.Operator], Value: value}}}}
	case Pattern:
		var opts string
		if n.Fold {
			opts = "i"
		}
		return bson.D{{Key: n.Field, Value: primitive.Regex{Pattern: n.Pattern, Options: opts}}}
	case Logical:
		key := "$and"
		if n.Operator == OpOr {
			key = "$or"
		}
		args := make(bson.A, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, ToMongo(a))
		}
		return bson.D{{Key: key, Value: args}}
	case Negation:
		return bson.D{{Key: "$nor", Value: bson.A{ToMongo(n.Arg)}}}
	}
	return bson.D{}
}

// Pipeline wraps e in a single $match stage. A nil expression yields an
// empty pipeline.
func Pipeline(e Expr) mongo.Pipeline {
	if e == nil {
		return mongo.Pipeline{}
	}
	return mongo.Pipeline{{{Key: "$match", Value: ToMongo(e)}}}
}

// MarshalPipeline encodes p as a JSON array of relaxed extended JSON stages,
// the format the REST backend expects in its "filter" parameter.
func MarshalPipeline(p mongo.Pipeline) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, stage := range p {
		data, err := bson.MarshalExtJSON(stage, false, false)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal pipeline stage %d", i)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalPipeline decodes the output of MarshalPipeline.
func UnmarshalPipeline(data []byte) (mongo.Pipeline, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode pipeline array")
	}

	p := make(mongo.Pipeline, 0, len(raw))
	for i, r := range raw {
		var stage bson.D
		if err := bson.UnmarshalExtJSON(r, false, &stage); err != nil {
			return nil, errors.Wrapf(err, "decode pipeline stage %d", i)
		}
		p = append(p, stage)
	}
	return p, nil
}

// FromPipeline rebuilds the predicate held by the $match stages of p.
// Stages other than $match are rejected.
func FromPipeline(p mongo.Pipeline) (Expr, error) {
	var parts []Expr
	for i, stage := range p {
		for _, elem := range stage {
			if elem.Key != "$match" {
				return nil, errors.Errorf("stage %d: unsupported pipeline operator %q", i, elem.Key)
			}
			doc, ok := asDoc(elem.Value)
			if !ok {
				return nil, errors.Errorf("stage %d: $match expects a document", i)
			}
			e, err := ParseMongo(doc)
			if err != nil {
				return nil, errors.Wrapf(err, "stage %d", i)
			}
			parts = append(parts, e)
		}
	}
	return And(parts...), nil
}

// ParseMongo converts the subset of MongoDB query documents produced by
// ToMongo back into a predicate tree. Top-level keys are joined with AND.
func ParseMongo(doc bson.D) (Expr, error) {
	parts := make([]Expr, 0, len(doc))
	for _, elem := range doc {
		e, err := parseElem(elem)
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	return And(parts...), nil
}

func parseElem(elem bson.E) (Expr, error) {
	switch elem.Key {
	case "$and", "$or", "$nor":
		items, ok := asArray(elem.Value)
		if !ok {
			return nil, errors.Errorf("%s expects an array", elem.Key)
		}
		args := make([]Expr, 0, len(items))
		for _, item := range items {
			doc, ok := asDoc(item)
			if !ok {
				return nil, errors.Errorf("%s expects an array of documents", elem.Key)
			}
			e, err := ParseMongo(doc)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		switch elem.Key {
		case "$and":
			return And(args...), nil
		case "$or":
			return Or(args...), nil
		default:
			return Not(Or(args...)), nil
		}
	}

	if strings.HasPrefix(elem.Key, "$") {
		return nil, errors.Errorf("unsupported operator %q", elem.Key)
	}

	field := elem.Key
	if re, ok := elem.Value.(primitive.Regex); ok {
		return Regex(field, re.Pattern, strings.Contains(re.Options, "i")), nil
	}

	ops, ok := asDoc(elem.Value)
	if !ok || len(ops) == 0 || !strings.HasPrefix(ops[0].Key, "$") {
		return Eq(field, normalize(elem.Value)), nil
	}

	parts := make([]Expr, 0, len(ops))
	for _, op := range ops {
		e, err := parseFieldOp(field, op)
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	return And(parts...), nil
}

func parseFieldOp(field string, op bson.E) (Expr, error) {
	switch op.Key {
	case "$eq":
		return Eq(field, normalize(op.Value)), nil
	case "$ne":
		return Ne(field, normalize(op.Value)), nil
	case "$gt":
		return Gt(field, normalize(op.Value)), nil
	case "$gte":
		return Gte(field, normalize(op.Value)), nil
	case "$lt":
		return Lt(field, normalize(op.Value)), nil
	case "$lte":
		return Lte(field, normalize(op.Value)), nil
	case "$in":
		items, ok := asArray(op.Value)
		if !ok {
			return nil, errors.Errorf("%s: $in expects an array", field)
		}
		values := make([]any, len(items))
		for i, v := range items {
			values[i] = normalize(v)
		}
		return In(field, values...), nil
	case "$exists":
		b, ok := op.Value.(bool)
		if !ok {
			return nil, errors.Errorf("%s: $exists expects a boolean", field)
		}
		return Exists(field, b), nil
	case "$regex":
		switch re := op.Value.(type) {
		case primitive.Regex:
			return Regex(field, re.Pattern, strings.Contains(re.Options, "i")), nil
		case string:
			return Regex(field, re, false), nil
		}
		return nil, errors.Errorf("%s: $regex expects a pattern", field)
	}
	return nil, errors.Errorf("%s: unsupported operator %q", field, op.Key)
}

func asDoc(v any) (bson.D, bool) {
	switch d := v.(type) {
	case bson.D:
		return d, true
	case bson.M:
		out := make(bson.D, 0, len(d))
		for k, val := range d {
			out = append(out, bson.E{Key: k, Value: val})
		}
		return out, true
	}
	return nil, false
}

func asArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case bson.A:
		return []any(a), true
	case []any:
		return a, true
	}
	return nil, false
}

// normalize maps decoded BSON scalars onto the plain Go types used when
// building expressions by hand.
func normalize(v any) any {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case primitive.Null:
		return nil
	}
	return v
}
