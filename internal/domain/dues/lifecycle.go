package dues

import "github.com/jhoicas/club-cuotas-api/internal/domain/entity"

// LifecycleInput historia del socio de la que se deriva su estado.
type LifecycleInput struct {
	CurrentStatus     string
	Enrollments       []*entity.Enrollment
	PaidDues          int
	LifetimeThreshold int // <= 0 desactiva VITALICIO
}

// DeriveMemberStatus idempotente y sin efectos. VITALICIO es terminal: este motor nunca lo revoca,
// la revocación es una acción administrativa explícita fuera de aquí.
func DeriveMemberStatus(in LifecycleInput) string {
	if in.CurrentStatus == entity.MemberStatusVitalicio {
		return entity.MemberStatusVitalicio
	}
	if in.LifetimeThreshold > 0 && in.PaidDues >= in.LifetimeThreshold {
		return entity.MemberStatusVitalicio
	}
	hasActive := false
	for _, e := range in.Enrollments {
		if e.IsActive() {
			hasActive = true
			break
		}
	}
	switch {
	case !hasActive:
		return entity.MemberStatusInactive
	case in.PaidDues == 0:
		return entity.MemberStatusPending
	default:
		return entity.MemberStatusActive
	}
}
