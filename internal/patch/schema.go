package patch

import (
	"errors"

	"gorm.io/gorm"
)

// Kind classifies a field for type coercion.
type Kind int

const (
	String Kind = iota
	Integer
	Decimal
	Date
	Flag
)

// Field declares one patchable field: the request name, the column it
// maps to, and how its value is coerced. Only declared columns ever
// reach SQL text; values are always bound by the ORM.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Schema is the per-entity-type allow-list of patchable fields.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// NewSchema builds a schema from an ordered field list
func NewSchema(fields ...Field) *Schema {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &Schema{fields: fields, byName: byName}
}

// Fields returns the declared fields in declaration order
func (s *Schema) Fields() []Field {
	return s.fields
}

// Lookup returns the declared field for a request name
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// ErrNoFields is returned when an update payload names no recognized
// fields. Client error, not a server fault.
var ErrNoFields = errors.New("no fields to update")

// ErrNotFound is returned when the UPDATE matched no live row.
var ErrNotFound = errors.New("entity not found")

// Build resolves a sparse map of field names to values against the schema.
// Unknown names are ignored. Recognized values are coerced per field
// kind (nil and empty string become SQL NULL). An input that resolves
// to zero columns yields ErrNoFields.
func (s *Schema) Build(input map[string]any) (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	for name, raw := range input {
		field, ok := s.byName[name]
		if !ok {
			continue
		}
		updates[field.Column] = Coerce(field.Kind, raw)
	}
	if len(updates) == 0 {
		return nil, ErrNoFields
	}
	return updates, nil
}

// Apply executes the single UPDATE for one entity id inside the
// caller's transaction. Soft-deleted rows are not matched. Zero rows
// affected surfaces as ErrNotFound.
func Apply(tx *gorm.DB, mdl interface{}, id int, updates map[string]interface{}) error {
	res := tx.Model(mdl).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
