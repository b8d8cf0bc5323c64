package mongodb

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"go.mongodb.org/mongo-driver/bson"
)

// ListDatabases lists every database on the server.
func (p *Pool) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := p.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	return names, nil
}

// ListTables lists collections, filtered, sorted and sliced in memory.
func (p *Pool) ListTables(ctx context.Context, opts core.TableListOptions) ([]string, error) {
	names, err := p.db().ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	return engine.FilterNames(names, opts), nil
}

// ListViews is always empty.
func (p *Pool) ListViews(context.Context) ([]string, error) { return []string{}, nil }

// ListFunctions is always empty.
func (p *Pool) ListFunctions(context.Context) ([]string, error) { return []string{}, nil }

// TableSchema reports only _id; other fields are discovered per page.
func (p *Pool) TableSchema(context.Context, string) ([]core.ColumnInfo, error) {
	return []core.ColumnInfo{{Name: IDField, DataType: "ObjectId", Nullable: false, IsPrimaryKey: true}}, nil
}

// ForeignKeys is always empty; collections have no foreign keys.
func (p *Pool) ForeignKeys(context.Context, string) ([]core.ForeignKeyInfo, error) {
	return []core.ForeignKeyInfo{}, nil
}

// Indexes is always empty.
func (p *Pool) Indexes(context.Context, string) ([]core.IndexInfo, error) {
	return []core.IndexInfo{}, nil
}
