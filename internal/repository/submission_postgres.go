package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// SubmissionRepository is the audit journal of successful submissions.
// In-progress answers are never persisted.
type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, submission *entity.Submission) error
}

// DBTX is the subset of pgxpool.Pool the journal needs
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertSubmissionSQL = `
INSERT INTO profile_submissions (id, session_id, answer_count, payload, submitted_at)
VALUES ($1, $2, $3, $4, $5)`

var _ SubmissionRepository = &SubmissionPostgres{}

// SubmissionPostgres implements SubmissionRepository using PostgreSQL
type SubmissionPostgres struct {
	db DBTX
}

func NewSubmissionPostgres(db DBTX) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

func (r *SubmissionPostgres) SaveSubmission(ctx context.Context, submission *entity.Submission) error {
	params, err := toInsertParams(submission)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, insertSubmissionSQL,
		params.id, params.sessionID, params.answerCount, params.payload, params.submittedAt,
	); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	return nil
}

type submissionRow struct {
	id          pgtype.UUID
	sessionID   pgtype.UUID
	answerCount int32
	payload     []byte
	submittedAt pgtype.Timestamptz
}

func toInsertParams(submission *entity.Submission) (*submissionRow, error) {
	id, err := uuid.Parse(submission.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid submission ID: %w", err)
	}

	sessionID, err := uuid.Parse(submission.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	payload, err := json.Marshal(submission.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal submission payload: %w", err)
	}

	submittedAt := submission.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	return &submissionRow{
		id:          pgtype.UUID{Bytes: id, Valid: true},
		sessionID:   pgtype.UUID{Bytes: sessionID, Valid: true},
		answerCount: int32(submission.AnswerCount),
		payload:     payload,
		submittedAt: pgtype.Timestamptz{Time: submittedAt, Valid: true},
	}, nil
}

// NoopSubmissionRepository is used when no database is configured
type NoopSubmissionRepository struct{}

func (NoopSubmissionRepository) SaveSubmission(_ context.Context, _ *entity.Submission) error {
	return nil
}
