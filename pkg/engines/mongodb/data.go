package mongodb

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/engine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FetchTable finds one page of documents. Skip and limit run server-side; a
// cursor replaces sort and skip with a range bound on its column.
func (p *Pool) FetchTable(ctx context.Context, collection string, opts core.QueryOptions) (*core.TableDataResponse, error) {
	coll := p.db().Collection(collection)
	filter := BuildFilter(opts.Filters, opts.FilterLogic, opts.Cursor)

	find := options.Find().SetLimit(int64(opts.EffectiveLimit()))
	switch {
	case opts.Cursor != nil:
		dir := 1
		if opts.Cursor.Direction == core.CursorBefore {
			dir = -1
		}
		find.SetSort(bson.D{{Key: opts.Cursor.Column, Value: dir}})
	default:
		if opts.Offset > 0 {
			find.SetSkip(int64(opts.Offset))
		}
		if opts.Sort != nil {
			dir := 1
			if opts.Sort.Direction == core.SortDesc {
				dir = -1
			}
			find.SetSort(bson.D{{Key: opts.Sort.Column, Value: dir}})
		}
	}
	if len(opts.SelectedColumns) > 0 {
		proj := bson.D{}
		for _, c := range opts.SelectedColumns {
			proj = append(proj, bson.E{Key: c, Value: 1})
		}
		find.SetProjection(proj)
	}

	p.logger.Debug("finding documents",
		slog.String("connection", p.cfg.ID),
		slog.String("collection", collection))

	cur, err := coll.Find(ctx, filter, find)
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, core.NewQueryError(err)
	}

	cols, rows := Flatten(docs)
	resp := &core.TableDataResponse{Columns: cols, Rows: rows}

	if !opts.SkipCount {
		count, err := coll.CountDocuments(ctx, BuildFilter(opts.Filters, opts.FilterLogic, nil))
		if err != nil {
			return nil, core.NewQueryError(err)
		}
		resp.TotalCount = &count
	}
	if opts.Cursor != nil {
		resp.NextCursor = engine.NextCursor(cols, rows, opts.Cursor.Column)
	}
	return resp, nil
}

// ColumnValues returns up to limit distinct values of a field.
func (p *Pool) ColumnValues(ctx context.Context, collection, field string, limit int) ([]any, error) {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	raw, err := p.db().Collection(collection).Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, core.NewQueryError(err)
	}
	values := make([]any, 0, min(len(raw), limit))
	for _, v := range raw {
		if len(values) == limit {
			break
		}
		values = append(values, ConvertValue(v))
	}
	return values, nil
}
