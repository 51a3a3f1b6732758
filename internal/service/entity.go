package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"rbac-backend/internal/apperror"
	"rbac-backend/pkg/pagination"
)

// Guard blocks deletion while live rows of Model still reference the
// target through ForeignKey.
type Guard struct {
	Model      any
	ForeignKey string
}

// Descriptor is an entity's field contract. Field names are the JSON
// names exposed at the HTTP boundary; column names are derived from
// them. Fields outside the insertable/updatable lists are silently
// dropped, not rejected.
type Descriptor struct {
	Insertable []string
	Updatable  []string
	Filterable []string
	Guards     []Guard
}

// Entity provides uniform CRUD over any table-backed model without
// per-entity query code. Uniqueness is enforced by the validators one
// layer up, not here.
type Entity[T any] struct {
	db     *gorm.DB
	desc   Descriptor
	column map[string]string
}

func NewEntity[T any](db *gorm.DB, desc Descriptor) *Entity[T] {
	ns := schema.NamingStrategy{}
	column := make(map[string]string)
	for _, fields := range [][]string{desc.Insertable, desc.Updatable, desc.Filterable} {
		for _, f := range fields {
			column[f] = ns.ColumnName("", f)
		}
	}
	column["id"] = "id"
	return &Entity[T]{db: db, desc: desc, column: column}
}

// Create persists a new record from data, keeping only insertable
// fields, and returns it with its generated id.
func (s *Entity[T]) Create(ctx context.Context, data map[string]any) (*T, error) {
	entity := new(T)
	if err := decodeInto(filterFields(data, s.desc.Insertable), entity); err != nil {
		return nil, apperror.BadRequest("invalid field value: " + err.Error())
	}
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return entity, nil
}

// GetByID returns the live record with the given primary key.
func (s *Entity[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	entity := new(T)
	err := s.db.WithContext(ctx).First(entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("record not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entity, nil
}

// List returns one page of records matching filters. String filters use
// case-insensitive substring match, everything else exact equality.
// Soft-deleted rows are always excluded regardless of filter content.
// Sort is a single "field:direction" pair, defaulting to id desc; a page
// past the end yields empty items, not an error.
func (s *Entity[T]) List(ctx context.Context, filters map[string]any, page pagination.Params, sort string) ([]T, pagination.Summary, error) {
	q := s.db.WithContext(ctx).Model(new(T))
	for field, value := range filters {
		if value == nil {
			continue
		}
		col, ok := s.column[field]
		if !ok {
			continue
		}
		if sv, isStr := value.(string); isStr {
			q = q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", col), "%"+strings.ToLower(sv)+"%")
		} else {
			q = q.Where(fmt.Sprintf("%s = ?", col), value)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Summary{}, apperror.Internal(err)
	}

	order, err := s.orderClause(sort)
	if err != nil {
		return nil, pagination.Summary{}, err
	}

	var items []T
	err = q.Order(order).Offset(page.Offset()).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, pagination.Summary{}, apperror.Internal(err)
	}
	return items, pagination.Summarize(total, page), nil
}

// Update applies the updatable subset of data to the record and returns
// the result. A missing id is a NotFound, not a silent upsert.
func (s *Entity[T]) Update(ctx context.Context, id uint, data map[string]any) (*T, error) {
	entity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	filtered := filterFields(data, s.desc.Updatable)
	if len(filtered) == 0 {
		return entity, nil
	}
	values := make(map[string]any, len(filtered))
	for field, v := range filtered {
		values[s.column[field]] = v
	}
	if err := s.db.WithContext(ctx).Model(entity).Updates(values).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the record after checking every configured guard. Any
// live related row aborts with Conflict and no mutation. Models with a
// DeletedAt column are soft-deleted; others lose the row.
func (s *Entity[T]) Delete(ctx context.Context, id uint) error {
	entity, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, g := range s.desc.Guards {
		var count int64
		err := s.db.WithContext(ctx).Model(g.Model).
			Where(fmt.Sprintf("%s = ?", g.ForeignKey), id).
			Count(&count).Error
		if err != nil {
			return apperror.Internal(err)
		}
		if count > 0 {
			return apperror.Conflict("cannot delete: related data exists")
		}
	}
	if err := s.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Entity[T]) orderClause(sort string) (string, error) {
	if sort == "" {
		return "id DESC", nil
	}
	field, dir, ok := strings.Cut(sort, ":")
	if !ok {
		return "", apperror.BadRequest("orderBy must be field:direction")
	}
	col, known := s.column[field]
	if !known {
		return "", apperror.BadRequest("cannot order by unknown field " + field)
	}
	switch strings.ToLower(dir) {
	case "asc":
		return col + " ASC", nil
	case "desc":
		return col + " DESC", nil
	default:
		return "", apperror.BadRequest("order direction must be asc or desc")
	}
}

// filterFields keeps only the allow-listed keys of data.
func filterFields(data map[string]any, allowed []string) map[string]any {
	out := make(map[string]any, len(allowed))
	for _, field := range allowed {
		if v, ok := data[field]; ok && v != nil {
			out[field] = v
		}
	}
	return out
}

// decodeInto maps JSON-named fields onto the model struct.
func decodeInto(data map[string]any, target any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
