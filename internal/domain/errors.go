package domain

import "errors"

// Sentinel errors for the generation pipeline. Callers match with errors.Is;
// sites wrap them with fmt.Errorf("...: %w", ...) to add detail.
var (
	// ErrInsufficientCatalogue means no eligible movements remained after all
	// filter relaxation. Fatal to the request; retrying with relaxed
	// parameters is the caller's decision.
	ErrInsufficientCatalogue = errors.New("insufficient catalogue")

	// ErrMalformedSequence means a sequence handed to the validator or
	// assembler is structurally invalid (unknown movement, duplicate,
	// inconsistent indices). It indicates a bug upstream, never a rule failure.
	ErrMalformedSequence = errors.New("malformed sequence")

	// ErrCollaboratorUnavailable wraps failures of the catalogue, usage, or
	// transition collaborators. The core does not retry; backoff belongs to
	// the caller or the collaborator client.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)
