// model/withdrawal.go
package model

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"

	// Reserved for the external payout executor; nothing in this
	// service transitions into them.
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

type Withdrawal struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenant_id"`
	UserID          int64            `json:"user_id"`
	AmountCents     int64            `json:"amount_cents"`
	FeeCents        int64            `json:"fee_cents"`
	PixKey          string           `json:"pix_key"`
	PixKeyType      string           `json:"pix_key_type"`
	Description     *string          `json:"description,omitempty"`
	Status          WithdrawalStatus `json:"status"`
	IPAddress       *string          `json:"ip_address,omitempty"`
	UserAgent       *string          `json:"user_agent,omitempty"`
	AdminNotes      *string          `json:"admin_notes,omitempty"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	ProcessedBy     *int64           `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateWithdrawalReq is the tenant-facing payout request payload.
// swagger:model CreateWithdrawalReq
type CreateWithdrawalReq struct {
	Amount      int64  `json:"amount" validate:"required,min=100,max=100000000"`
	PixKey      string `json:"pix_key" validate:"required,max=77"`
	PixKeyType  string `json:"pix_key_type" validate:"required,oneof=cpf cnpj email telefone aleatoria"`
	Description string `json:"description,omitempty" validate:"max=200"`
}

// ProcessWithdrawalReq is the admin approve/reject payload.
// swagger:model ProcessWithdrawalReq
type ProcessWithdrawalReq struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	AdminNotes      string `json:"admin_notes,omitempty" validate:"max=500"`
	RejectionReason string `json:"rejection_reason,omitempty" validate:"max=500"`
}
