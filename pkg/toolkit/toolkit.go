// Package toolkit implements the writing tools: text refinement and content generation.
package toolkit

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrUnknownKind = errors.New("unknown kind")

// Service turns user text into completions. Completion failures never surface as errors:
// they are logged as warnings and the result is empty.
type Service struct {
	completer completion.Completer
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewService(completer completion.Completer, tracer trace.Tracer, logger *slog.Logger) *Service {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Service{
		completer: completer,
		tracer:    tracer,
		logger:    logger.With("module", "toolkit"),
	}
}

// Refine rewrites text in the style named by kind. Blank text returns "" without a completion call.
// Only an unknown kind is reported as an error.
func (s *Service) Refine(ctx context.Context, kind RefineKind, text string) (string, error) {
	prompt, err := RefinePrompt(kind, text)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	return s.complete(ctx, "toolkit.refine", string(kind), prompt), nil
}

// Generate writes content of the given kind about topic. Blank topics return "".
func (s *Service) Generate(ctx context.Context, kind ContentKind, topic string) (string, error) {
	prompt, err := ContentPrompt(kind, topic)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(topic) == "" {
		return "", nil
	}

	return s.complete(ctx, "toolkit.generate", string(kind), prompt), nil
}

func (s *Service) complete(ctx context.Context, operation, kind, prompt string) string {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, operation, attribute.String(otelhelper.ToolKindKey, kind))
	defer span.End()

	result, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		errorKind := completion.ErrorKind(err)
		otelhelper.SetError(span, err, attribute.String(otelhelper.ErrorKindKey, errorKind))

		if errors.Is(err, completion.ErrMissingCredential) {
			s.logger.WarnContext(ctx, "No API key configured, skipping completion", "operation", operation, "kind", kind)
		} else {
			s.logger.WarnContext(ctx, "Completion failed", "operation", operation, "kind", kind, "error_kind", errorKind, "error", err)
		}

		return ""
	}

	return result
}
