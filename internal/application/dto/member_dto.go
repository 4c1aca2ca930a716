package dto

import "time"

// CreateMemberRequest alta de socio.
type CreateMemberRequest struct {
	UserID         string `json:"user_id" validate:"omitempty,max=64"`
	DocumentNumber string `json:"document_number" validate:"required,max=32"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"omitempty,max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"omitempty,max=32"`
}

// ListMembersRequest filtros del listado de socios.
type ListMembersRequest struct {
	Status  string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE PENDING VITALICIO"`
	Page    int    `query:"page" validate:"omitempty,min=1,max=1000000"`
	PerPage int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

// MemberResponse socio.
type MemberResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id,omitempty"`
	DocumentNumber string     `json:"document_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Status         string     `json:"status"`
	LifetimeSince  *time.Time `json:"lifetime_since,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MemberListResponse página de socios.
type MemberListResponse struct {
	Items []MemberResponse `json:"items"`
	PageResponse
}

// MemberStatusResponse estado recalculado del socio.
type MemberStatusResponse struct {
	MemberID       string `json:"member_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	PaidDues       int    `json:"paid_dues"`
}
