package source

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/biotree/pkg/errors"
)

// DefaultMongoField is the document field holding the hierarchy.
const DefaultMongoField = "hierarchy"

// Mongo reads a hierarchy stored in a MongoDB collection. The location has the
// form
//
//	mongodb://host:27017/<database>?collection=<coll>&name=<value>[&field=<f>]
//
// The document is selected by its "name" field. The hierarchy field may hold
// an embedded document or a JSON string.
type Mongo struct {
	location   string
	uri        string
	database   string
	collection string
	name       string
	field      string
	opts       options
}

// NewMongo parses location and returns a source. It does not connect.
func NewMongo(location string, opts ...Option) (*Mongo, error) {
	m, err := parseMongoURI(location)
	if err != nil {
		return nil, err
	}
	m.opts = buildOptions(opts)
	return m, nil
}

func parseMongoURI(location string) (*Mongo, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse mongo location")
	}
	q := u.Query()
	m := &Mongo{
		location:   location,
		database:   strings.Trim(u.Path, "/"),
		collection: q.Get("collection"),
		name:       q.Get("name"),
		field:      q.Get("field"),
	}
	if m.field == "" {
		m.field = DefaultMongoField
	}
	switch {
	case m.database == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo location needs a database path")
	case m.collection == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo location needs a collection parameter")
	case m.name == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo location needs a name parameter")
	}

	// The remaining query parameters are driver options.
	q.Del("collection")
	q.Del("name")
	q.Del("field")
	u.RawQuery = q.Encode()
	u.Path = "/"
	m.uri = u.String()
	return m, nil
}

// Fetch implements [Source].
func (m *Mongo) Fetch(ctx context.Context) ([]byte, error) {
	return m.opts.cached(ctx, m.location, func() ([]byte, error) {
		return instrument(ctx, "mongo", m.location, func() ([]byte, error) {
			return m.find(ctx)
		})
	})
}

func (m *Mongo) find(ctx context.Context) ([]byte, error) {
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	coll := client.Database(m.database).Collection(m.collection)
	raw, err := coll.FindOne(ctx, bson.M{"name": m.name}).Raw()
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "no document named %q in %s.%s", m.name, m.database, m.collection)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find %q", m.name)
	}
	return hierarchyJSON(raw, m.field)
}

// hierarchyJSON extracts field from a stored document as JSON.
func hierarchyJSON(raw bson.Raw, field string) ([]byte, error) {
	val, err := raw.LookupErr(field)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "field %q", field)
	}
	switch val.Type {
	case bsontype.EmbeddedDocument:
		data, err := bson.MarshalExtJSON(val.Document(), false, false)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "convert field %q", field)
		}
		return data, nil
	case bsontype.String:
		return []byte(val.StringValue()), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "field %q has type %s", field, val.Type)
	}
}

func (m *Mongo) String() string { return m.location }

var _ Source = (*Mongo)(nil)
