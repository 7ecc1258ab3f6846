package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// snapshotByPK re-reads an entity's persisted row by primary key into a
// field map. A missing row returns (nil, nil): that marks a creation, not
// an error. The session skips hooks so the read itself is never audited.
func snapshotByPK(db *gorm.DB, table, pkColumn string, pkValue any) (map[string]any, error) {
	row := map[string]any{}
	err := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
		Table(table).
		Where(pkColumn+" = ?", pkValue).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// snapshotStatement captures the in-memory field values of the statement's
// model. Only single-struct destinations are snapshotted; batch slices and
// map destinations return nil.
func snapshotStatement(stmt *gorm.Statement) map[string]any {
	if stmt.Schema == nil {
		return nil
	}
	rv := stmt.ReflectValue
	if rv.Kind() != reflect.Struct {
		return nil
	}

	snap := make(map[string]any, len(stmt.Schema.Fields))
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" {
			continue
		}
		value, _ := field.ValueOf(stmt.Context, rv)
		snap[field.DBName] = value
	}
	return snap
}

// primaryKey returns the statement model's primary key column and value.
// ok is false for destinations without a determinable key (batch slices,
// map updates, zero-valued keys).
func primaryKey(stmt *gorm.Statement) (column string, value any, ok bool) {
	if stmt.Schema == nil || stmt.Schema.PrioritizedPrimaryField == nil {
		return "", nil, false
	}
	rv := stmt.ReflectValue
	if rv.Kind() != reflect.Struct {
		return "", nil, false
	}
	field := stmt.Schema.PrioritizedPrimaryField
	v, isZero := field.ValueOf(stmt.Context, rv)
	if isZero {
		return "", nil, false
	}
	return field.DBName, v, true
}

// primaryKeyString renders the statement model's primary key as a string,
// or "" when it cannot be determined.
func primaryKeyString(stmt *gorm.Statement) string {
	_, value, ok := primaryKey(stmt)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// normalizeFields round-trips a field map through JSON so values compare by
// their serialized form: time.Time becomes an RFC 3339 string, all numbers
// become float64. Two values are "changed" iff their JSON forms differ.
func normalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fields
	}
	normalized := map[string]any{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return fields
	}
	return normalized
}

// Diff renders the changed fields between two snapshots, one line per
// field in the form "* field: 'old' → 'new'". Sensitive fields are left
// out entirely, not even masked, to keep the diff free of noise. A nil
// after (deletion) reports every remaining field as removed.
func Diff(before, after map[string]any, sensitive map[string]struct{}) string {
	if before == nil && after == nil {
		return ""
	}
	nb := normalizeFields(before)
	na := normalizeFields(after)

	keys := make([]string, 0, len(nb)+len(na))
	seen := make(map[string]struct{}, len(nb)+len(na))
	for k := range nb {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range na {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		if _, ok := sensitive[strings.ToLower(k)]; ok {
			continue
		}
		ov, nv := nb[k], na[k]
		if !reflect.DeepEqual(ov, nv) {
			lines = append(lines, fmt.Sprintf("* %s: '%s' → '%s'", k, diffValue(ov), diffValue(nv)))
		}
	}
	return strings.Join(lines, "\n")
}

func diffValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
