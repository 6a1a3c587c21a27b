package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-eventwave/internal/common/models"
)

// FeedbackRepository はフィードバックのスナップショットの永続化を担当するインターフェースです
type FeedbackRepository interface {
	CreateFeedbackRecords(ctx context.Context, records []models.FeedbackRecord) (int, error)
	GetByEventID(ctx context.Context, eventID int64) ([]models.FeedbackRecord, error)
}

// FeedbackRepositoryImpl はフィードバックの永続化を担当します
type FeedbackRepositoryImpl struct {
	db *DB
}

// NewFeedbackRepository は新しいFeedbackRepositoryを作成します
func NewFeedbackRepository(db *DB) *FeedbackRepositoryImpl {
	return &FeedbackRepositoryImpl{
		db: db,
	}
}

const insertFeedbackRecord = `
	INSERT INTO feedback_records (
		event_id, event_title, review_id, user_name, rating, feedback, reviewed_at, created_at
	) VALUES (
		:event_id, :event_title, :review_id, :user_name, :rating, :feedback, :reviewed_at, :created_at
	)
	ON CONFLICT (event_id, review_id) DO NOTHING`

// CreateFeedbackRecords は複数のレコードを1つのトランザクションで作成し、新規に作成した件数を返します
// 既に保存済みのレビューは無視します
func (r *FeedbackRepositoryImpl) CreateFeedbackRecords(ctx context.Context, records []models.FeedbackRecord) (inserted int, err error) {
	ctx, seg := xray.BeginSubsegment(ctx, "FeedbackRepository.CreateFeedbackRecords")
	defer func() {
		if seg != nil {
			seg.Close(err)
		}
	}()

	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// エラーが発生した場合のみロールバックを実行
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
		}
	}()

	for _, record := range records {
		n, createErr := r.create(ctx, tx, record)
		if createErr != nil {
			err = fmt.Errorf("failed to create feedback record for review %d: %w", record.ReviewID, createErr)
			return 0, err
		}
		inserted += n
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (r *FeedbackRepositoryImpl) create(ctx context.Context, tx *sqlx.Tx, record models.FeedbackRecord) (int, error) {
	result, err := tx.NamedExecContext(ctx, insertFeedbackRecord, record)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// GetByEventID は指定されたイベントのレコードをレビュー日時の新しい順に取得します
func (r *FeedbackRepositoryImpl) GetByEventID(ctx context.Context, eventID int64) ([]models.FeedbackRecord, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "FeedbackRepository.GetByEventID")
	if seg != nil {
		defer seg.Close(nil)
	}

	query := `
		SELECT id, event_id, event_title, review_id, user_name, rating, feedback, reviewed_at, created_at
		FROM feedback_records
		WHERE event_id = $1
		ORDER BY reviewed_at DESC, id ASC`

	rows, err := r.db.QueryxContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback records: %w", err)
	}
	defer rows.Close()

	records := make([]models.FeedbackRecord, 0)
	for rows.Next() {
		var record models.FeedbackRecord
		if err := rows.StructScan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan feedback record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback records: %w", err)
	}

	return records, nil
}
