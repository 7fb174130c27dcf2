package toolkit

import (
	"fmt"
	"slices"
)

// RefineKind selects how text is rewritten.
type RefineKind string

const (
	RefineImprove      RefineKind = "improve"
	RefineProfessional RefineKind = "professional"
	RefineCasual       RefineKind = "casual"
	RefineConcise      RefineKind = "concise"
	RefineExpand       RefineKind = "expand"
)

// ContentKind selects the kind of content generated from a topic.
type ContentKind string

const (
	ContentBlog   ContentKind = "blog"
	ContentEmail  ContentKind = "email"
	ContentSocial ContentKind = "social"
	ContentCopy   ContentKind = "copy"
)

var refinePrompts = map[RefineKind]string{
	RefineImprove:      "Improve the following text by making it clearer, more engaging, and better structured:\n\n%s",
	RefineProfessional: "Rewrite the following text in a professional tone:\n\n%s",
	RefineCasual:       "Rewrite the following text in a casual, friendly tone:\n\n%s",
	RefineConcise:      "Make the following text more concise while keeping the key points:\n\n%s",
	RefineExpand:       "Expand on the following text with more details and examples:\n\n%s",
}

var contentPrompts = map[ContentKind]string{
	ContentBlog:   "Write a comprehensive blog post about: %s. Include an engaging introduction, detailed sections, and a compelling conclusion.",
	ContentEmail:  "Write a professional email about: %s. Make it clear, concise, and action-oriented.",
	ContentSocial: "Create an engaging social media post about: %s. Make it attention-grabbing and shareable.",
	ContentCopy:   "Write compelling marketing copy for: %s. Focus on benefits and include a clear call-to-action.",
}

func RefineKinds() []RefineKind {
	return []RefineKind{RefineImprove, RefineProfessional, RefineCasual, RefineConcise, RefineExpand}
}

func ContentKinds() []ContentKind {
	return []ContentKind{ContentBlog, ContentEmail, ContentSocial, ContentCopy}
}

func (k RefineKind) Valid() bool {
	return slices.Contains(RefineKinds(), k)
}

func (k ContentKind) Valid() bool {
	return slices.Contains(ContentKinds(), k)
}

// RefinePrompt builds the completion prompt for rewriting text.
func RefinePrompt(kind RefineKind, text string) (string, error) {
	format, ok := refinePrompts[kind]
	if !ok {
		return "", fmt.Errorf("%w: refine kind %q", ErrUnknownKind, kind)
	}

	return fmt.Sprintf(format, text), nil
}

// ContentPrompt builds the completion prompt for generating content about topic.
func ContentPrompt(kind ContentKind, topic string) (string, error) {
	format, ok := contentPrompts[kind]
	if !ok {
		return "", fmt.Errorf("%w: content kind %q", ErrUnknownKind, kind)
	}

	return fmt.Sprintf(format, topic), nil
}
