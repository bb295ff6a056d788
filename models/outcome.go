package models

// CommandOutcome classifies how one dispatcher turn ended. Every outcome maps
// to exactly one human-readable chat reply; internal detail is only logged.
type CommandOutcome string

const (
	OutcomeNotACommand         CommandOutcome = "not_a_command" // routed to the cache, not an error
	OutcomeUnconfiguredChannel CommandOutcome = "unconfigured_channel"
	OutcomeIdentityUnresolved  CommandOutcome = "identity_unresolved"
	OutcomeUnauthorized        CommandOutcome = "unauthorized"
	OutcomeMissingContext      CommandOutcome = "missing_context"
	OutcomeParseIncomplete     CommandOutcome = "parse_incomplete"
	OutcomeDomainCallFailed    CommandOutcome = "domain_call_failed"
	OutcomeReferenceNotFound   CommandOutcome = "reference_not_found" // soft failure, create still succeeds
	OutcomeSuccess             CommandOutcome = "success"
)

// DispatchResult is the terminal state of one dispatcher turn
type DispatchResult struct {
	Outcome CommandOutcome
	Reply   string // empty for OutcomeNotACommand
}
