package domain

// Causes attached to rejected input. The exact strings are part of the
// API contract and must not change.
const (
	CauseCredentialsRequired = "Required user_id and password"
	CauseIncorrectLength     = "Input length is incorrect"
	CauseIncorrectPattern    = "Incorrect character pattern"
	CauseDuplicateUserID     = "Already same user_id is used"
	CauseNothingToUpdate     = "Required nickname or comment"
	CauseFieldTooLong        = "String length limit exceeded or containing invalid characters"
	CauseImmutableField      = "Not updatable user_id and password"
)

// ValidationError reports client input rejected by an account rule.
// Cause carries the client-facing reason string.
type ValidationError struct {
	Cause string
}

func (e *ValidationError) Error() string {
	return e.Cause
}
