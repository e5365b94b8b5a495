package platform

import (
	"context"

	"github.com/rflorenc/formpatch/internal/models"
)

// FormsAPI defines the operations available against the marketing forms API.
type FormsAPI interface {
	// ListAll returns every form, following pagination to the end.
	ListAll(ctx context.Context) ([]models.Form, error)

	// Get returns a single form by ID.
	Get(ctx context.Context, id string) (models.Form, error)

	// Update enables createNewContactForNewEmail on a form.
	Update(ctx context.Context, id string) error
}

// NewFormsAPI creates the FormsAPI implementation for a token.
func NewFormsAPI(opts Options, out Reporter, pageSize int) FormsAPI {
	return NewForms(NewClient(opts), out, pageSize)
}
