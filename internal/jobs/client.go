package jobs

import (
	"context"
	"encoding/json"

	"go-blog-api/internal/logging"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const (
	TypeArticlePublished = "notification:article_published"
	DefaultQueue         = "default"
)

var (
	tracer       = otel.Tracer("go-blog-api")
	jobsMeter    = otel.Meter("go-blog-api")
	jobsEnqueued metric.Int64Counter
)

// PublishedPayload announces a newly published article to followers. The
// trace context rides along so the worker span joins the request trace.
type PublishedPayload struct {
	ArticleID    uint              `json:"article_id"`
	ArticleTitle string            `json:"article_title"`
	TraceContext map[string]string `json:"trace_context"`
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	var err error
	jobsEnqueued, err = jobsMeter.Int64Counter(
		"jobs.enqueued",
		metric.WithDescription("Total number of jobs enqueued"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs enqueued counter")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueuePublishedNotification(ctx context.Context, articleID uint, articleTitle string) error {
	ctx, span := tracer.Start(ctx, "job.enqueue.article_published")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("article.id", int64(articleID)),
		attribute.String("job.type", TypeArticlePublished),
	)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	payload := PublishedPayload{
		ArticleID:    articleID,
		ArticleTitle: articleTitle,
		TraceContext: carrier,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeArticlePublished, payloadBytes)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if jobsEnqueued != nil {
		jobsEnqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job.type", TypeArticlePublished),
		))
	}

	span.SetAttributes(
		attribute.String("job.id", info.ID),
		attribute.String("job.queue", info.Queue),
	)

	logging.Info(ctx).
		Str("job_id", info.ID).
		Str("job_type", TypeArticlePublished).
		Uint("article_id", articleID).
		Msg("job enqueued")

	return nil
}
