package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome is the terminal result of one commit attempt.
type Outcome string

const (
	OutcomeNurtured Outcome = "nurtured"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
)

const defaultCommitsLimit = 50

// CommitRecord is one journal row. A partial attempt that is later
// nurtured updates its own row, keyed by attempt id.
type CommitRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AttemptID   string    `json:"attempt_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(64);not null;index"`
	Username    string    `json:"username" gorm:"type:varchar(150);not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null"`
	ProjectName string    `json:"project_name" gorm:"type:varchar(200);not null"`
	Channel     string    `json:"nurturing_channel" gorm:"type:varchar(16);not null"`
	LeadCount   int       `json:"lead_count" gorm:"not null;default:0"`
	CampaignID  *int64    `json:"campaign_id,omitempty" gorm:"index"`
	Outcome     Outcome   `json:"outcome" gorm:"type:varchar(16);not null;index;check:outcome IN ('nurtured','partial','failed')"`
	Reason      string    `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CommitRecord) TableName() string {
	return "campaign_commits"
}

func (r *CommitRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Journal stores commit outcomes observed by the console.
type Journal struct {
	db *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Migrate() error {
	return j.db.AutoMigrate(&CommitRecord{})
}

// Record inserts the outcome or, for an attempt already journaled,
// overwrites its outcome.
func (j *Journal) Record(ctx context.Context, rec CommitRecord) error {
	err := j.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"campaign_id", "outcome", "reason", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("record commit %s: %w", rec.AttemptID, err)
	}
	return nil
}

// List returns the operator's most recent commits first.
func (j *Journal) List(ctx context.Context, username string, q CommitsQuery) ([]CommitRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultCommitsLimit
	}

	query := j.db.WithContext(ctx).Where("username = ?", username)
	if q.Outcome != "" {
		query = query.Where("outcome = ?", q.Outcome)
	}

	var records []CommitRecord
	if err := query.Order("updated_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	return records, nil
}

// Purge deletes settled records last touched before cutoff. Partial
// commits are kept since they still need operator attention.
func (j *Journal) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res := j.db.WithContext(ctx).
		Where("updated_at < ? AND outcome <> ?", cutoff, OutcomePartial).
		Delete(&CommitRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge commits: %w", res.Error)
	}
	return res.RowsAffected, nil
}
