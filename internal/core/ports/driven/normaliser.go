package driven

import (
	"context"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// Normaliser transforms raw file content into canonical SOPs.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise decodes raw content. Only undecodable content is an error;
	// any decodable shape yields canonical SOPs.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// SOPs are the canonical records found in the content.
	SOPs []domain.SOP
}
