package expense

// Status represents the lifecycle state of an expense claim.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusPaid     Status = "PAID"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
	StatusPaid:     true,
}

// IsValid returns true if the status is a known lifecycle state.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// PaymentMode records how a PAID claim was settled.
type PaymentMode string

const (
	PaymentModeSeparate PaymentMode = "SEPARATE"
	PaymentModeCombined PaymentMode = "COMBINED"
)

// String returns the string representation of the payment mode.
func (m PaymentMode) String() string {
	return string(m)
}

// Role is the authorization role carried by an authenticated actor.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAccountant Role = "accountant"
	RoleSuperAdmin Role = "superadmin"
)

// CanApprove returns true for roles allowed to approve or reject a claim.
func (r Role) CanApprove() bool {
	return r == RoleAccountant || r == RoleSuperAdmin
}

// CanViewAll returns true for roles that see every employee's claims. Other
// roles are always restricted to their own records at the query layer.
func (r Role) CanViewAll() bool {
	return r == RoleAccountant || r == RoleSuperAdmin
}

// DefaultRejectionReason is recorded when an approver rejects a claim
// without giving a reason.
const DefaultRejectionReason = "Rejected by approver"

// DefaultCurrency is the organization's base accounting currency.
const DefaultCurrency = "INR"
