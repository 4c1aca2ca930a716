package billing

import (
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

func formatDate(t time.Time) string {
	return t.Format(dto.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return dues.DateOf(t), nil
}

func toConfigResponse(c *entity.EconomicConfig) dto.EconomicConfigResponse {
	return dto.EconomicConfigResponse{
		Slug:              c.Slug,
		CurrencyCode:      c.CurrencyCode,
		MonthlyAmount:     c.MonthlyAmount,
		DueDay:            c.DueDay,
		GracePeriodDays:   c.GracePeriodDays,
		LateFeePercentage: c.LateFeePercentage,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toDueResponse(d dues.DerivedDue) dto.DueResponse {
	return dto.DueResponse{
		ID:               d.Due.ID,
		EnrollmentID:     d.Due.EnrollmentID,
		MemberID:         d.Due.MemberID,
		PlanName:         d.Due.PlanName,
		DueDate:          formatDate(d.Due.DueDate),
		Amount:           d.Due.Amount,
		Status:           d.Status,
		PaidAt:           d.Due.PaidAt,
		EnrollmentStatus: d.Due.EnrollmentStatus,
	}
}

func toDueResponses(list []dues.DerivedDue) []dto.DueResponse {
	out := make([]dto.DueResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDueResponse(d))
	}
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		DueID:     p.DueID,
		MemberID:  p.MemberID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Notes:     p.Notes,
		PaidAt:    p.PaidAt,
	}
}

func toEnrollmentResponse(e *entity.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:            e.ID,
		MemberID:      e.MemberID,
		StartDate:     formatDate(e.StartDate),
		PlanName:      e.PlanName,
		MonthlyAmount: e.MonthlyAmount,
		Status:        e.Status,
		Notes:         e.Notes,
		CancelledAt:   e.CancelledAt,
		CreatedAt:     e.CreatedAt,
	}
}

func toMemberResponse(m *entity.Member) dto.MemberResponse {
	return dto.MemberResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		DocumentNumber: m.DocumentNumber,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		FullName:       m.FullName(),
		Email:          m.Email,
		Phone:          m.Phone,
		Status:         m.Status,
		LifetimeSince:  m.LifetimeSince,
		CreatedAt:      m.CreatedAt,
	}
}
