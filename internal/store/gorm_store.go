package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

// GormStore keeps every collection in a single records table with a JSON
// fields column. xid ids carry a timestamp prefix and a randomly-seeded
// counter, which keeps collision probability negligible while staying
// roughly sortable by creation time.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) AddRecord(collection string, fields map[string]interface{}) (string, error) {
	rec := model.Record{
		ID:         xid.New().String(),
		Collection: collection,
		Fields:     normalizeFields(fields),
	}
	// Create fails on a colliding primary key instead of overwriting.
	if err := s.DB.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("add record to %s: %w", collection, err)
	}
	return rec.ID, nil
}

func (s *GormStore) GetRecord(collection, id string) (*model.Record, error) {
	var rec model.Record
	err := s.DB.Where("collection = ? AND id = ?", collection, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s/%s: %w", collection, id, err)
	}
	return &rec, nil
}

func (s *GormStore) PutRecord(collection, id string, fields map[string]interface{}) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var rec model.Record
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec = model.Record{
				ID:         id,
				Collection: collection,
				Fields:     normalizeFields(fields),
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("put record %s/%s: %w", collection, id, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("put record %s/%s: %w", collection, id, err)
		}

		if rec.Fields == nil {
			rec.Fields = model.JSONMap{}
		}
		for k, v := range normalizeFields(fields) {
			rec.Fields[k] = v
		}
		// Save stamps UpdatedAt.
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("put record %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func (s *GormStore) QueryByEquality(collection, field string, value interface{}) ([]model.Record, error) {
	all, err := s.ListAll(collection)
	if err != nil {
		return nil, err
	}
	want := normalizeValue(value)
	var out []model.Record
	for _, rec := range all {
		if got, ok := rec.Fields[field]; ok && reflect.DeepEqual(got, want) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *GormStore) ListAll(collection string) ([]model.Record, error) {
	var recs []model.Record
	if err := s.DB.Where("collection = ?", collection).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return recs, nil
}

func (s *GormStore) DeleteRecord(collection, id string) error {
	if err := s.DB.Where("collection = ? AND id = ?", collection, id).Delete(&model.Record{}).Error; err != nil {
		return fmt.Errorf("delete record %s/%s: %w", collection, id, err)
	}
	return nil
}

// normalizeFields round-trips a field map through JSON so in-memory values
// compare identically to values read back from the JSON column (ints become
// float64, structs become maps).
func normalizeFields(fields map[string]interface{}) model.JSONMap {
	if fields == nil {
		return model.JSONMap{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		out := model.JSONMap{}
		for k, v := range fields {
			out[k] = v
		}
		return out
	}
	var m model.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		m = model.JSONMap(fields)
	}
	return m
}

func normalizeValue(value interface{}) interface{} {
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return value
	}
	return v
}
