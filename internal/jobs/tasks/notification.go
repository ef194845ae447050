package tasks

import (
	"context"
	"encoding/json"
	"time"

	"go-blog-api/internal/database"
	"go-blog-api/internal/logging"
	"go-blog-api/internal/models"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

var (
	tracer        = otel.Tracer("go-blog-api-worker")
	meter         = otel.Meter("go-blog-api-worker")
	jobsCompleted metric.Int64Counter
	jobsFailed    metric.Int64Counter
	jobsDuration  metric.Float64Histogram
)

func init() {
	var err error

	jobsCompleted, err = meter.Int64Counter(
		"jobs.completed",
		metric.WithDescription("Total number of jobs completed successfully"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs completed counter")
	}

	jobsFailed, err = meter.Int64Counter(
		"jobs.failed",
		metric.WithDescription("Total number of jobs failed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs failed counter")
	}

	jobsDuration, err = meter.Float64Histogram(
		"jobs.duration_ms",
		metric.WithDescription("Job processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs duration histogram")
	}
}

type PublishedPayload struct {
	ArticleID    uint              `json:"article_id"`
	ArticleTitle string            `json:"article_title"`
	TraceContext map[string]string `json:"trace_context"`
}

// HandleArticlePublished fans a publish event out to the author's followers.
// Delivery is a log line for now; the fan-out query and metrics are real.
func HandleArticlePublished(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload PublishedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		recordJobMetrics(ctx, "notification:article_published", false, time.Since(start))
		return err
	}

	parentCtx := otel.GetTextMapPropagator().Extract(
		context.Background(),
		propagation.MapCarrier(payload.TraceContext),
	)

	ctx, span := tracer.Start(parentCtx, "job.article_published")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", int64(payload.ArticleID)),
		attribute.String("article.title", payload.ArticleTitle),
		attribute.String("job.type", "notification:article_published"),
	)

	var article models.Article
	if err := database.DB.WithContext(ctx).First(&article, payload.ArticleID).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "article lookup failed")
		recordJobMetrics(ctx, "notification:article_published", false, time.Since(start))
		return err
	}

	var followerIDs []uint
	if err := database.DB.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", article.AuthorID).
		Pluck("follower_id", &followerIDs).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "follower lookup failed")
		recordJobMetrics(ctx, "notification:article_published", false, time.Since(start))
		return err
	}

	span.SetAttributes(attribute.Int("followers.count", len(followerIDs)))

	for _, followerID := range followerIDs {
		logging.Info(ctx).
			Uint("recipient_id", followerID).
			Uint("article_id", payload.ArticleID).
			Str("article_title", payload.ArticleTitle).
			Msg("notifying follower of published article")
	}

	span.SetStatus(codes.Ok, "notifications dispatched")
	span.SetAttributes(attribute.Bool("job.success", true))

	logging.Info(ctx).
		Uint("article_id", payload.ArticleID).
		Int("recipients", len(followerIDs)).
		Msg("published article notification processed")

	recordJobMetrics(ctx, "notification:article_published", true, time.Since(start))

	return nil
}

func recordJobMetrics(ctx context.Context, jobType string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("job.type", jobType),
	}

	if success {
		if jobsCompleted != nil {
			jobsCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		if jobsFailed != nil {
			jobsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	if jobsDuration != nil {
		jobsDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
}
