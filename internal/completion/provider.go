package completion

import (
	"context"

	"aichat/internal/domain/models"
)

// Provider generates assistant text from a conversation. Implementations are
// pure translation layers: assemble one provider-specific request, perform a
// single synchronous call with no retry, and map the response back to plain
// text. An empty or absent completion is returned as "" rather than failing.
//
// Failure mapping, shared by all implementations:
//   - credential absent from configuration -> domain.ErrMissingCredential
//   - provider rejected the credential     -> domain.ErrProviderUnauthorized
//   - other non-2xx response               -> *domain.CompletionError
type Provider interface {
	// Name returns the provider identifier used in configuration.
	Name() string

	// Generate produces assistant text for the new message given the chat's
	// prior messages and optional system instruction.
	Generate(ctx context.Context, history []models.Message, newMessage, instruction string) (string, error)
}
