package workflow

// NewLifecycleBuilder returns the transition table for the expense claim
// lifecycle:
//
//	PENDING --APPROVE--> APPROVED --PAY--> PAID
//	PENDING --REJECT---> REJECTED
//
// REJECTED and PAID are absorbing; no trigger leaves them.
func NewLifecycleBuilder() StateMachineBuilder {
	builder := NewBuilder()

	builder.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	builder.Configure(StateApproved).
		Permit(TriggerPay, StatePaid)

	return builder
}

// NewLifecycle builds a lifecycle machine positioned at the given state.
func NewLifecycle(current State) StateMachine {
	return NewLifecycleBuilder().Build(current)
}
