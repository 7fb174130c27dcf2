package services

import (
	"context"
	"log/slog"

	"github.com/dukex/scribe/pkg/catalog"
	"github.com/dukex/scribe/pkg/eventbus"
	"github.com/dukex/scribe/pkg/events"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/otelhelper"
	"github.com/dukex/scribe/pkg/router"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Chat answers customer-support queries from the loaded catalog.
type Chat struct {
	catalog   *catalog.Catalog
	router    *router.Router
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewChat(cat *catalog.Catalog, r *router.Router, publisher eventbus.EventPublisher, tracer trace.Tracer, logger *slog.Logger) *Chat {
	if publisher == nil {
		publisher = eventbus.Discard
	}

	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Chat{
		catalog:   cat,
		router:    r,
		publisher: publisher,
		tracer:    tracer,
		logger:    logger.With("module", "chat"),
	}
}

// Respond classifies query and renders the reply. It never fails.
func (c *Chat) Respond(ctx context.Context, query string) (string, router.Kind) {
	intent := router.Classify(query)

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "chat.respond", attribute.String(otelhelper.IntentKey, string(intent.Kind)))
	defer span.End()

	reply := c.router.Render(intent, c.catalog.Products, c.catalog.Orders)

	c.logger.DebugContext(ctx, "Answered query", "intent", intent.Kind, "order_id", intent.OrderID, "product", intent.Product)

	event := events.ChatResponded{
		BaseEvent:   events.NewBaseEvent(events.ChatRespondedEvent),
		Intent:      string(intent.Kind),
		QueryLength: len(query),
		ReplyLength: len(reply),
	}

	if err := c.publisher.Publish(context.WithoutCancel(ctx), "chat", event); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}

	return reply, intent.Kind
}

func (c *Chat) Products() []models.Product {
	return c.catalog.Products
}

func (c *Chat) Order(id string) (*models.Order, error) {
	order, ok := c.catalog.Order(id)
	if !ok {
		return nil, &ServiceError{Op: "get_order", Message: "order " + id + " not found", Err: ErrOrderNotFound}
	}

	return &order, nil
}
