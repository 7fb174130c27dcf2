package services

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/models"
	"github.com/google/uuid"
)

// Templates manages prompt templates stored as one JSON array under kvstore.KeyTemplates.
type Templates struct {
	store kvstore.Store
	mu    sync.Mutex
}

func NewTemplates(store kvstore.Store) *Templates {
	return &Templates{store: store}
}

func (t *Templates) List(ctx context.Context) ([]models.PromptTemplate, error) {
	return loadList[models.PromptTemplate](ctx, t.store, kvstore.KeyTemplates)
}

// Save appends a new template with a generated ID. Name and prompt are required.
func (t *Templates) Save(ctx context.Context, template models.PromptTemplate) (*models.PromptTemplate, error) {
	if strings.TrimSpace(template.Name) == "" {
		return nil, NewValidationError("save_template", "please fill in name and prompt", ErrNameRequired)
	}

	if strings.TrimSpace(template.Prompt) == "" {
		return nil, NewValidationError("save_template", "please fill in name and prompt", ErrPromptRequired)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	templates, err := t.List(ctx)
	if err != nil {
		return nil, err
	}

	template.ID = uuid.NewString()
	template.CreatedAt = time.Now().UTC()

	templates = append(templates, template)

	if err := saveList(ctx, t.store, kvstore.KeyTemplates, templates); err != nil {
		return nil, err
	}

	return &template, nil
}

func (t *Templates) Get(ctx context.Context, id string) (*models.PromptTemplate, error) {
	templates, err := t.List(ctx)
	if err != nil {
		return nil, err
	}

	index := slices.IndexFunc(templates, func(template models.PromptTemplate) bool { return template.ID == id })
	if index < 0 {
		return nil, &ServiceError{Op: "get_template", Message: "template " + id + " not found", Err: ErrTemplateNotFound}
	}

	return &templates[index], nil
}

// Delete removes the template with id. Unknown IDs report ErrTemplateNotFound.
func (t *Templates) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	templates, err := t.List(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(slices.Clone(templates), func(template models.PromptTemplate) bool {
		return template.ID == id
	})

	if len(remaining) == len(templates) {
		return &ServiceError{Op: "delete_template", Message: "template " + id + " not found", Err: ErrTemplateNotFound}
	}

	return saveList(ctx, t.store, kvstore.KeyTemplates, remaining)
}
