// Package core defines the shared language of the leapdb access layer.
//
// This package contains:
//   - Connection records (ConnectionConfig, EngineKind)
//   - Schema entities (ColumnInfo, ForeignKeyInfo, IndexInfo)
//   - Query and result shapes (QueryOptions, TableDataResponse, QueryResult)
//   - Mutation and DDL request types (PendingChange, ColumnDefinition)
//   - Error kinds shared by every engine
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
