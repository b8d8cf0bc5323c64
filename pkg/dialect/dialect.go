// Package dialect provides SQL dialect configuration for the relational engines.
//
// A Dialect knows how to quote identifiers, format bind placeholders and which
// operator implements case-insensitive contains. The query compiler, DDL
// generator and mutation executor all take a *Dialect rather than switching on
// the engine kind themselves.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	core.DialectConfig

	// Kind is the engine family this dialect belongs to.
	Kind core.EngineKind
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect for the given engine kind.
func NewDialect(name string, kind core.EngineKind) *Builder {
	return &Builder{d: &Dialect{
		DialectConfig: core.DialectConfig{
			Name:         name,
			Identifiers:  core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
			LikeOperator: "LIKE",
		},
		Kind: kind,
	}}
}

// Identifiers sets the identifier quoting rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.d.Identifiers = core.IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd, Escape: escape}
	return b
}

// PlaceholderStyle sets the placeholder format.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// LikeOperator sets the case-insensitive contains operator.
func (b *Builder) LikeOperator(op string) *Builder {
	b.d.LikeOperator = op
	return b
}

// AbortsTxOnError marks dialects whose transactions are poisoned by a failed statement.
func (b *Builder) AbortsTxOnError() *Builder {
	b.d.AbortsTxOnError = true
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	cfg := d.DialectConfig
	return &cfg
}

// FormatPlaceholder returns the placeholder for the given parameter index (1-based).
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifiers quotes each name and joins them with ", ".
func (d *Dialect) QuoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
