// Package field implements the tokenization state machine of a token field.
//
// A Field reconciles one editable text buffer with an ordered list of tokens
// and at most one selected token. The buffer's state is explicit (see
// TextState); the sentinel characters that encode Empty and Hidden exist only
// in HostText, for hosts whose text surface cannot express "nothing typed,
// but backspace still means something".
//
// Field is safe to call from one owner goroutine. Search results may arrive
// on another goroutine when the coordinator's Deliver is left at its default;
// hosts with a UI loop should forward batches to it and call Accept there.
//
// WillAdd and WillRemove run with the field locked because their answer
// decides the change; they may inspect the token passed to them but must not
// call back into Field. Every other hook fires after the change is complete
// and the lock is released, so it may read or modify the field. A panicking
// hook is logged and skipped.
package field
