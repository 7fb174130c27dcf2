package toolkit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefinePrompt(t *testing.T) {
	prompt, err := RefinePrompt(RefineProfessional, "hey there")
	require.NoError(t, err)
	assert.Equal(t, "Rewrite the following text in a professional tone:\n\nhey there", prompt)

	for _, kind := range RefineKinds() {
		prompt, err := RefinePrompt(kind, "TEXT")
		require.NoError(t, err)
		assert.Contains(t, prompt, "\n\nTEXT")
		assert.True(t, kind.Valid())
	}

	_, err = RefinePrompt("shouty", "x")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.False(t, RefineKind("shouty").Valid())
}

func TestContentPrompt(t *testing.T) {
	prompt, err := ContentPrompt(ContentEmail, "the launch")
	require.NoError(t, err)
	assert.Equal(t, "Write a professional email about: the launch. Make it clear, concise, and action-oriented.", prompt)

	for _, kind := range ContentKinds() {
		prompt, err := ContentPrompt(kind, "TOPIC")
		require.NoError(t, err)
		assert.Contains(t, prompt, "TOPIC.")
	}

	_, err = ContentPrompt("poem", "x")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestService_Refine(t *testing.T) {
	completer := &mocks.MockCompleter{}
	completer.On("Complete", mock.Anything, "Make the following text more concise while keeping the key points:\n\nlong text").
		Return("short", nil)

	service := NewService(completer, nil, slog.Default())

	result, err := service.Refine(context.Background(), RefineConcise, "long text")
	require.NoError(t, err)
	assert.Equal(t, "short", result)
	completer.AssertExpectations(t)
}

func TestService_BlankInputIsNoop(t *testing.T) {
	completer := &mocks.MockCompleter{}
	service := NewService(completer, nil, slog.Default())

	result, err := service.Refine(context.Background(), RefineImprove, "   ")
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = service.Generate(context.Background(), ContentBlog, "")
	require.NoError(t, err)
	assert.Empty(t, result)

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestService_FailuresReturnEmpty(t *testing.T) {
	for name, cause := range map[string]error{
		"missing key":  completion.ErrMissingCredential,
		"unauthorized": &completion.APIError{StatusCode: 401},
		"other":        errors.New("boom"),
	} {
		t.Run(name, func(t *testing.T) {
			completer := &mocks.MockCompleter{}
			completer.On("Complete", mock.Anything, mock.Anything).Return("", cause)

			service := NewService(completer, nil, slog.Default())

			result, err := service.Generate(context.Background(), ContentSocial, "spring sale")
			require.NoError(t, err)
			assert.Empty(t, result)
		})
	}
}

func TestService_UnknownKind(t *testing.T) {
	service := NewService(&mocks.MockCompleter{}, nil, slog.Default())

	_, err := service.Generate(context.Background(), "haiku", "x")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
