package engine

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

// ColumnRow is the scan target for column catalog queries. Engines alias
// their catalog columns to these names.
type ColumnRow struct {
	Name         string        `db:"name"`
	DataType     string        `db:"data_type"`
	IsNullable   string        `db:"is_nullable"`
	MaxLength    sql.NullInt64 `db:"max_length"`
	IsPrimaryKey bool          `db:"is_primary_key"`
}

// ColumnInfo converts the row. IsNullable is "YES"/"NO" as in information_schema.
func (r ColumnRow) ColumnInfo() core.ColumnInfo {
	info := core.ColumnInfo{
		Name:         r.Name,
		DataType:     r.DataType,
		Nullable:     strings.EqualFold(r.IsNullable, "YES"),
		IsPrimaryKey: r.IsPrimaryKey,
	}
	if r.MaxLength.Valid {
		n := r.MaxLength.Int64
		info.MaxLength = &n
	}
	return info
}

// ForeignKeyRow is the scan target for foreign-key catalog queries.
type ForeignKeyRow struct {
	ConstraintName   string `db:"constraint_name"`
	ColumnName       string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table"`
	ReferencedColumn string `db:"referenced_column"`
}

// IndexRow is the scan target for index catalog queries. Columns is a
// comma-separated list in index order.
type IndexRow struct {
	Name      string         `db:"name"`
	Columns   sql.NullString `db:"columns"`
	Unique    bool           `db:"is_unique"`
	IndexType sql.NullString `db:"index_type"`
}

// IndexInfo converts the row.
func (r IndexRow) IndexInfo() core.IndexInfo {
	info := core.IndexInfo{Name: r.Name, Columns: []string{}, Unique: r.Unique, IndexType: r.IndexType.String}
	if r.Columns.Valid && r.Columns.String != "" {
		info.Columns = strings.Split(r.Columns.String, ",")
	}
	return info
}

// SelectColumns runs a column catalog query written with ? placeholders.
func (p *SQLPool) SelectColumns(ctx context.Context, q string, args ...any) ([]core.ColumnInfo, error) {
	var rows []ColumnRow
	if err := p.DB.SelectContext(ctx, &rows, p.DB.Rebind(q), args...); err != nil {
		return nil, core.NewQueryError(err)
	}
	cols := make([]core.ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, r.ColumnInfo())
	}
	return cols, nil
}

// SelectForeignKeys runs a foreign-key catalog query written with ? placeholders.
func (p *SQLPool) SelectForeignKeys(ctx context.Context, q string, args ...any) ([]core.ForeignKeyInfo, error) {
	var rows []ForeignKeyRow
	if err := p.DB.SelectContext(ctx, &rows, p.DB.Rebind(q), args...); err != nil {
		return nil, core.NewQueryError(err)
	}
	fks := make([]core.ForeignKeyInfo, 0, len(rows))
	for _, r := range rows {
		fks = append(fks, core.ForeignKeyInfo(r))
	}
	return fks, nil
}

// SelectIndexes runs an index catalog query written with ? placeholders.
func (p *SQLPool) SelectIndexes(ctx context.Context, q string, args ...any) ([]core.IndexInfo, error) {
	var rows []IndexRow
	if err := p.DB.SelectContext(ctx, &rows, p.DB.Rebind(q), args...); err != nil {
		return nil, core.NewQueryError(err)
	}
	idx := make([]core.IndexInfo, 0, len(rows))
	for _, r := range rows {
		idx = append(idx, r.IndexInfo())
	}
	return idx, nil
}

// ListNames runs a catalog query selecting one name column and narrows it by
// opts. The search is a literal, case-insensitive substring match. base must
// end in a WHERE clause (use "WHERE 1=1" when there is no condition) and is
// written with ? placeholders.
func (p *SQLPool) ListNames(ctx context.Context, base, column string, opts core.TableListOptions, args ...any) ([]string, error) {
	q := base
	if opts.Search != "" {
		q += fmt.Sprintf(" AND LOWER(%s) LIKE ? ESCAPE '%s'", column, likeEscape)
		args = append(args, ContainsPattern(opts.Search))
	}
	q += " ORDER BY " + column
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, max(opts.Offset, 0))
		return p.QueryStrings(ctx, p.DB.Rebind(q), args...)
	}

	names, err := p.QueryStrings(ctx, p.DB.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	return Page(names, opts.Offset, 0), nil
}

// likeEscape is the LIKE escape character. It must not be a backslash, which
// MySQL consumes inside string literals.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// ContainsPattern returns a lowercase LIKE pattern matching search as a
// literal substring, so catalog searches agree with FilterNames.
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

// FilterNames applies opts to names in memory: case-insensitive substring
// match, lexical sort, then offset and limit. Used by engines without a
// queryable catalog.
func FilterNames(names []string, opts core.TableListOptions) []string {
	out := slices.Clone(names)
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		out = slices.DeleteFunc(out, func(n string) bool {
			return !strings.Contains(strings.ToLower(n), needle)
		})
	}
	slices.Sort(out)
	return Page(out, opts.Offset, opts.Limit)
}

// Page slices names by offset and limit. A non-positive limit means no limit.
func Page(names []string, offset, limit int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(names) {
		return []string{}
	}
	end := len(names)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return names[offset:end]
}

// DecodeParams decodes engine-specific connection params into out, a pointer
// to a struct with mapstructure tags. String values are coerced, so
// "true" and "1" decode into bool and int fields.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode engine params: %w", err)
	}
	return nil
}
