package store

import (
	"testing"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Record{}))
	return NewGormStore(db)
}

func TestAddAndGetRecord(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddRecord("quizzes", map[string]interface{}{
		"title": "Go basics",
		"count": 4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := s.GetRecord("quizzes", id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "quizzes", rec.Collection)
	assert.Equal(t, "Go basics", rec.Fields["title"])
	// Numbers come back as float64 after the JSON round trip.
	assert.Equal(t, float64(4), rec.Fields["count"])
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestAddRecordGeneratesUniqueIDs(t *testing.T) {
	s := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := s.AddRecord("quizzes", map[string]interface{}{"n": i})
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGetRecordAbsent(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.GetRecord("quizzes", "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetRecordWrongCollection(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddRecord("quizzes", map[string]interface{}{"title": "x"})
	require.NoError(t, err)

	rec, err := s.GetRecord("questions", id)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPutRecordMergesFields(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddRecord("quizzes", map[string]interface{}{
		"title":  "Original",
		"status": "published",
	})
	require.NoError(t, err)

	before, err := s.GetRecord("quizzes", id)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	err = s.PutRecord("quizzes", id, map[string]interface{}{"status": "archived"})
	require.NoError(t, err)

	after, err := s.GetRecord("quizzes", id)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, "archived", after.Fields["status"])
	// Untouched fields survive the merge.
	assert.Equal(t, "Original", after.Fields["title"])
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt.Unix(), after.CreatedAt.Unix())
}

func TestPutRecordInsertsWithGivenID(t *testing.T) {
	s := newTestStore(t)

	err := s.PutRecord("questions", "quiz1_q1", map[string]interface{}{
		"quizId":   "quiz1",
		"position": 1,
	})
	require.NoError(t, err)

	rec, err := s.GetRecord("questions", "quiz1_q1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "quiz1", rec.Fields["quizId"])
}

func TestQueryByEquality(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddRecord("questions", map[string]interface{}{"quizId": "a", "position": 1})
	require.NoError(t, err)
	_, err = s.AddRecord("questions", map[string]interface{}{"quizId": "a", "position": 2})
	require.NoError(t, err)
	_, err = s.AddRecord("questions", map[string]interface{}{"quizId": "b", "position": 1})
	require.NoError(t, err)

	recs, err := s.QueryByEquality("questions", "quizId", "a")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// An int argument matches the float64 stored by the JSON column.
	recs, err = s.QueryByEquality("questions", "position", 1)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.QueryByEquality("questions", "quizId", "missing")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestListAll(t *testing.T) {
	s := newTestStore(t)

	recs, err := s.ListAll("quizzes")
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = s.AddRecord("quizzes", map[string]interface{}{"title": "one"})
	require.NoError(t, err)
	_, err = s.AddRecord("quizzes", map[string]interface{}{"title": "two"})
	require.NoError(t, err)
	_, err = s.AddRecord("users", map[string]interface{}{"name": "someone"})
	require.NoError(t, err)

	recs, err = s.ListAll("quizzes")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestDeleteRecord(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddRecord("quizzes", map[string]interface{}{"title": "gone"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord("quizzes", id))

	rec, err := s.GetRecord("quizzes", id)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Deleting a missing record is a no-op.
	require.NoError(t, s.DeleteRecord("quizzes", "no-such-id"))
}
