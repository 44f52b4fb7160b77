package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quizSetRow is the relational shape of one quiz set. Question bodies are
// stored as a JSON document; the service never queries inside them.
type quizSetRow struct {
	ID            string         `gorm:"primaryKey;size:64"`
	Title         string         `gorm:"not null;size:200"`
	Description   string         `gorm:"type:text"`
	Category      string         `gorm:"size:100;index"`
	Difficulty    string         `gorm:"size:20"`
	EstimatedTime int            ``
	Questions     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      ``
	UpdatedAt     time.Time      ``
}

func (quizSetRow) TableName() string {
	return "quiz_sets"
}

// Storage is a Postgres-backed snapshot store. It implements store.Storage
// with the same whole-snapshot semantics as the file backend.
type Storage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&quizSetRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate quiz_sets table: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Load(ctx context.Context) (models.Snapshot, bool, error) {
	var rows []quizSetRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load quiz sets: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	snapshot := make(models.Snapshot, len(rows))
	for _, row := range rows {
		var questions []models.Question
		if len(row.Questions) > 0 {
			if err := json.Unmarshal(row.Questions, &questions); err != nil {
				return nil, false, fmt.Errorf("quiz set %q has corrupt question payload: %w", row.ID, err)
			}
		}
		snapshot[row.ID] = &models.QuizSet{
			ID:            row.ID,
			Title:         row.Title,
			Description:   row.Description,
			Category:      row.Category,
			Difficulty:    models.DifficultyLevel(row.Difficulty),
			EstimatedTime: row.EstimatedTime,
			Questions:     questions,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		}
	}
	return snapshot, true, nil
}

func (s *Storage) Save(ctx context.Context, snapshot models.Snapshot) error {
	rows := make([]quizSetRow, 0, len(snapshot))
	ids := make([]string, 0, len(snapshot))
	for id, set := range snapshot {
		questions, err := json.Marshal(set.Questions)
		if err != nil {
			return fmt.Errorf("failed to marshal questions for quiz set %q: %w", id, err)
		}
		rows = append(rows, quizSetRow{
			ID:            id,
			Title:         set.Title,
			Description:   set.Description,
			Category:      set.Category,
			Difficulty:    string(set.Difficulty),
			EstimatedTime: set.EstimatedTime,
			Questions:     questions,
			CreatedAt:     set.CreatedAt,
			UpdatedAt:     set.UpdatedAt,
		})
		ids = append(ids, id)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return tx.Where("1 = 1").Delete(&quizSetRow{}).Error
		}
		if err := tx.Where("id NOT IN ?", ids).Delete(&quizSetRow{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}
