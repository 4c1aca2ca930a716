package dues_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

func TestDeriveStatus_TablaDeDecision(t *testing.T) {
	paidAt := date(2024, 2, 12)
	cases := []struct {
		name string
		in   dues.StatusInput
		want string
	}{
		{
			name: "vencida pasado el período de gracia",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), Today: date(2024, 2, 20), GracePeriodDays: 5, EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusOverdue,
		},
		{
			name: "dentro del período de gracia",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), Today: date(2024, 2, 14), GracePeriodDays: 5, EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusPending,
		},
		{
			name: "último día de gracia sigue pendiente",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), Today: date(2024, 2, 15), GracePeriodDays: 5, EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusPending,
		},
		{
			name: "sin gracia vence al día siguiente",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), Today: date(2024, 2, 11), EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusOverdue,
		},
		{
			name: "pagada",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), PaidAt: &paidAt, Today: date(2024, 5, 1), EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusPaid,
		},
		{
			name: "impaga de inscripción cancelada",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), Today: date(2024, 5, 1), EnrollmentStatus: entity.EnrollmentStatusCancelled},
			want: entity.DueStatusFrozen,
		},
		{
			name: "pagada de inscripción cancelada no revierte",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), PaidAt: &paidAt, Today: date(2024, 5, 1), EnrollmentStatus: entity.EnrollmentStatusCancelled},
			want: entity.DueStatusPaid,
		},
		{
			name: "estado almacenado PAID manda aunque falte paid_at",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), StoredStatus: entity.DueStatusPaid, Today: date(2024, 5, 1), EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusPaid,
		},
		{
			name: "estado almacenado desactualizado se ignora",
			in:   dues.StatusInput{DueDate: date(2024, 2, 10), StoredStatus: entity.DueStatusPending, Today: date(2024, 3, 1), GracePeriodDays: 5, EnrollmentStatus: entity.EnrollmentStatusActive},
			want: entity.DueStatusOverdue,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dues.DeriveStatus(tc.in))
		})
	}
}

func TestDeriveStatus_HoraDelDiaNoCambiaElResultado(t *testing.T) {
	in := dues.StatusInput{
		DueDate:          date(2024, 2, 10),
		Today:            time.Date(2024, 2, 15, 23, 59, 0, 0, time.UTC),
		GracePeriodDays:  5,
		EnrollmentStatus: entity.EnrollmentStatusActive,
	}
	assert.Equal(t, entity.DueStatusPending, dues.DeriveStatus(in))
}
