package scrape

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arkdex/arkdex/backend/go-services/internal/database"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/google/uuid"
)

// Job statuses.
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// PersistedJob is the Mongo representation for scrape job metadata.
type PersistedJob struct {
	JobID      string    `bson:"jobId" json:"jobId"`
	Operator   string    `bson:"operator" json:"operator"`
	Status     string    `bson:"status" json:"status"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
	ItemCount  int       `bson:"itemCount" json:"itemCount"`
	ArchiveKey string    `bson:"archiveKey,omitempty" json:"archiveKey,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewJob creates running job metadata for an operator scrape.
func NewJob(operator string) *PersistedJob {
	now := time.Now().UTC()
	return &PersistedJob{
		JobID:     uuid.NewString(),
		Operator:  operator,
		Status:    JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Succeed marks the job finished and records the scraped document's stats.
func (j *PersistedJob) Succeed(rec *trivia.Record) {
	j.Status = JobStatusSucceeded
	j.ItemCount = len(rec.Document.TriviaItems)
	j.ArchiveKey = rec.ArchiveKey
	j.UpdatedAt = time.Now().UTC()
}

// Fail marks the job failed with the scrape error.
func (j *PersistedJob) Fail(err error) {
	j.Status = JobStatusFailed
	if err != nil {
		j.Error = err.Error()
	}
	j.UpdatedAt = time.Now().UTC()
}

// SaveJob persists (upsert) scrape job metadata into the provided Mongo URI/db.
// If mongoURI is empty the function is a no-op.
func SaveJob(ctx context.Context, mongoURI, databaseName string, job *PersistedJob) error {
	if mongoURI == "" {
		return nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	job.UpdatedAt = time.Now().UTC()
	col := client.Database(databaseName).Collection("scrape_jobs")
	filter := bson.M{"jobId": job.JobID}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, filter, bson.M{"$set": job}, opts); err != nil {
		return fmt.Errorf("save scrape job: %w", err)
	}
	return nil
}

// LoadJob fetches persisted scrape job metadata by jobId. Returns nil when not found.
func LoadJob(ctx context.Context, mongoURI, databaseName, jobID string) (*PersistedJob, error) {
	if mongoURI == "" {
		return nil, nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)
	col := client.Database(databaseName).Collection("scrape_jobs")
	var job PersistedJob
	if err := col.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&job); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}
