package expense

import "time"

// Expense represents one reimbursement claim submitted by an employee.
type Expense struct {
	ID                  int64       `json:"id"`
	EmployeeID          int64       `json:"employee_id"`
	Description         string      `json:"description,omitempty"`
	LineItems           []LineItem  `json:"line_items"`
	TotalAmount         float64     `json:"total_amount"`
	ClaimDate           time.Time   `json:"claim_date"`
	ReimbursementPeriod string      `json:"reimbursement_period"`
	Receipts            []Receipt   `json:"receipts"`
	Status              Status      `json:"status"`
	PaymentMode         PaymentMode `json:"payment_mode,omitempty"`
	ApprovedBy          *int64      `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time  `json:"approved_at,omitempty"`
	RejectionReason     string      `json:"rejection_reason,omitempty"`
	PaymentBatchID      string      `json:"payment_batch_id,omitempty"`
	PaidAt              *time.Time  `json:"paid_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// LineItem represents a single categorized expense entry within a claim.
// BaseAmount is always derived from ClaimedAmount and ExchangeRate; it is
// never written independently.
type LineItem struct {
	ID              int64     `json:"id"`
	ExpenseID       int64     `json:"expense_id"`
	Category        string    `json:"category"`
	ClaimedAmount   float64   `json:"claimed_amount"`
	ClaimedCurrency string    `json:"claimed_currency"`
	IsInternational bool      `json:"is_international"`
	ExchangeRate    float64   `json:"exchange_rate"`
	BaseAmount      float64   `json:"base_amount"`
	ExpenseDate     time.Time `json:"expense_date"`
}

// Receipt is a pointer into the external receipt store.
type Receipt struct {
	ID        int64  `json:"id"`
	ExpenseID int64  `json:"expense_id"`
	URL       string `json:"url"`
	StorageID string `json:"storage_id,omitempty"`
}

// Employee is the directory record a claim is owned by. Ownership is fixed
// at claim creation.
type Employee struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actor is the authenticated identity performing an operation. Authentication
// itself happens upstream; the service only consumes the resolved identity.
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
