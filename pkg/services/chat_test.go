package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/dukex/scribe/pkg/catalog"
	"github.com/dukex/scribe/pkg/events"
	"github.com/dukex/scribe/pkg/mocks"
	"github.com/dukex/scribe/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestChat_Respond(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, "chat", mock.Anything).Return(nil)

	chat := NewChat(catalog.Sample(), router.New(), bus, nil, slog.Default())

	reply, kind := chat.Respond(context.Background(), "What's the status of order 12345?")
	assert.Equal(t, router.KindOrderStatus, kind)
	assert.True(t, strings.HasPrefix(reply, "**Order #12345 Status: SHIPPED**"))

	published := bus.EventsOfType(events.ChatRespondedEvent)
	require.Len(t, published, 1)

	event := published[0].(events.ChatResponded)
	assert.Equal(t, "order_status", event.Intent)
	assert.Equal(t, len(reply), event.ReplyLength)
}

func TestChat_OrderLookup(t *testing.T) {
	chat := NewChat(catalog.Sample(), router.New(), nil, nil, slog.Default())

	order, err := chat.Order("12345")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", order.CustomerName)

	_, err = chat.Order("999")
	require.ErrorIs(t, err, ErrOrderNotFound)
	assert.True(t, IsNotFoundError(err))

	assert.Len(t, chat.Products(), 8)
}

func TestChat_Respond_PublishesWithinSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, "chat", mock.Anything).Return(nil)

	chat := NewChat(catalog.Sample(), router.New(), bus, tracer, slog.Default())
	chat.Respond(context.Background(), "show me the top sellers")

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "chat.respond", ended[0].Name())

	require.Len(t, bus.Calls, 1)
	published := trace.SpanContextFromContext(bus.Calls[0].Arguments.Get(0).(context.Context))
	assert.True(t, published.IsValid())
	assert.Equal(t, ended[0].SpanContext().SpanID(), published.SpanID())
}
