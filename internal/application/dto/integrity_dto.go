package dto

// IntegrityIssueResponse cuota con problema de integridad.
type IntegrityIssueResponse struct {
	Kind               string `json:"kind"`
	DueID              string `json:"due_id"`
	EnrollmentID       string `json:"enrollment_id"`
	DueMemberID        string `json:"due_member_id"`
	EnrollmentMemberID string `json:"enrollment_member_id,omitempty"`
	HasPayment         bool   `json:"has_payment"`
}

// IntegrityReport resultado del chequeo de integridad de cuotas.
type IntegrityReport struct {
	Issues  []IntegrityIssueResponse `json:"issues"`
	Deleted int                      `json:"deleted"`
	Fixed   bool                     `json:"fixed"`
}
