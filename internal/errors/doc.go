// Package errors provides structured, coded errors for the tabletop session manager.
//
// Every layer returns *Error values so that callers can branch on the code
// instead of matching strings:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("user_id", userID)
//
//	if errors.IsNotFound(err) {
//	    // tell the player to create a character first
//	}
//
// Wrapping keeps the original code, so a repository NotFound stays NotFound
// after an orchestrator adds context:
//
//	if err != nil {
//	    return nil, errors.Wrapf(err, "failed to load npc %d", id)
//	}
//
// Driver and I/O errors that are not *Error values wrap as Internal.
//
// # Layer Guidelines
//
// Repository layer:
//   - Return NotFound for missing rows and AlreadyExists for duplicate inserts
//   - Include identifiers in metadata
//
// Orchestrator layer:
//   - Validate configs with the ValidationBuilder
//   - Turn expected outcomes (Code.Expected) into player-facing replies
//
// Chat handler:
//   - Log anything unexpected with its metadata and reply with a generic message
package errors
