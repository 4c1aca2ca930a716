package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// ── Configuración económica ──────────────────────────────────────────────────

type configRepo struct{ v view }

func (r *configRepo) GetBySlug(_ context.Context, slug string) (*entity.EconomicConfig, error) {
	var out *entity.EconomicConfig
	err := r.v.with(func(d *data) error {
		if c, ok := d.configs[slug]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *configRepo) CreateIfAbsent(_ context.Context, cfg *entity.EconomicConfig) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.configs[cfg.Slug]; !ok {
			cp := *cfg
			d.configs[cfg.Slug] = &cp
		}
		return nil
	})
}

func (r *configRepo) Update(_ context.Context, cfg *entity.EconomicConfig) error {
	return r.v.with(func(d *data) error {
		if _, ok := d.configs[cfg.Slug]; !ok {
			return domain.ErrNotFound
		}
		cp := *cfg
		d.configs[cfg.Slug] = &cp
		return nil
	})
}

func (r *configRepo) List(_ context.Context) ([]*entity.EconomicConfig, error) {
	var out []*entity.EconomicConfig
	err := r.v.with(func(d *data) error {
		for _, c := range d.configs {
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, err
}

// ── Inscripciones ────────────────────────────────────────────────────────────

type enrollmentRepo struct{ v view }

func activeOf(d *data, memberID, exceptID string) *entity.Enrollment {
	for _, e := range d.enrollments {
		if e.MemberID == memberID && e.IsActive() && e.ID != exceptID {
			return e
		}
	}
	return nil
}

func (r *enrollmentRepo) Create(_ context.Context, enr *entity.Enrollment) error {
	return r.v.with(func(d *data) error {
		if enr.IsActive() && activeOf(d, enr.MemberID, "") != nil {
			return fmt.Errorf("%w: el socio ya tiene una inscripción activa", domain.ErrDuplicate)
		}
		cp := *enr
		d.enrollments[enr.ID] = &cp
		return nil
	})
}

func (r *enrollmentRepo) GetByID(_ context.Context, id string) (*entity.Enrollment, error) {
	var out *entity.Enrollment
	err := r.v.with(func(d *data) error {
		if e, ok := d.enrollments[id]; ok {
			cp := *e
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.GetByID(ctx, id)
}

func (r *enrollmentRepo) GetActiveByMember(_ context.Context, memberID string) (*entity.Enrollment, error) {
	var out *entity.Enrollment
	err := r.v.with(func(d *data) error {
		if e := activeOf(d, memberID, ""); e != nil {
			cp := *e
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) list(filter func(*entity.Enrollment) bool) ([]*entity.Enrollment, error) {
	var out []*entity.Enrollment
	err := r.v.with(func(d *data) error {
		for _, e := range d.enrollments {
			if filter(e) {
				cp := *e
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *enrollmentRepo) ListByMember(_ context.Context, memberID string) ([]*entity.Enrollment, error) {
	out, err := r.list(func(e *entity.Enrollment) bool { return e.MemberID == memberID })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *enrollmentRepo) ListActive(_ context.Context) ([]*entity.Enrollment, error) {
	out, err := r.list(func(e *entity.Enrollment) bool { return e.IsActive() })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *enrollmentRepo) CountActive(ctx context.Context) (int, error) {
	list, err := r.ListActive(ctx)
	return len(list), err
}

func (r *enrollmentRepo) UpdateStatus(_ context.Context, id, status string, cancelledAt *time.Time, updatedAt time.Time) error {
	return r.v.with(func(d *data) error {
		e, ok := d.enrollments[id]
		if !ok {
			return domain.ErrNotFound
		}
		if status == entity.EnrollmentStatusActive && activeOf(d, e.MemberID, e.ID) != nil {
			return fmt.Errorf("%w: el socio ya tiene una inscripción activa", domain.ErrDuplicate)
		}
		e.Status = status
		e.CancelledAt = cancelledAt
		e.UpdatedAt = updatedAt
		return nil
	})
}

// ── Socios ───────────────────────────────────────────────────────────────────

type memberRepo struct{ v view }

func (r *memberRepo) Create(_ context.Context, m *entity.Member) error {
	return r.v.with(func(d *data) error {
		for _, other := range d.members {
			if other.DocumentNumber == m.DocumentNumber {
				return fmt.Errorf("%w: documento %s ya registrado", domain.ErrDuplicate, m.DocumentNumber)
			}
		}
		cp := *m
		d.members[m.ID] = &cp
		return nil
	})
}

func (r *memberRepo) GetByID(_ context.Context, id string) (*entity.Member, error) {
	var out *entity.Member
	err := r.v.with(func(d *data) error {
		if m, ok := d.members[id]; ok {
			cp := *m
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memberRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Member, int, error) {
	var all []*entity.Member
	err := r.v.with(func(d *data) error {
		for _, m := range d.members {
			if status == "" || m.Status == status {
				cp := *m
				all = append(all, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	total := len(all)
	from := min(max(offset, 0), total)
	to := total
	if limit > 0 {
		to = min(from+limit, total)
	}
	return all[from:to], total, nil
}

func (r *memberRepo) UpdateStatus(_ context.Context, id, status string, lifetimeSince *time.Time, updatedAt time.Time) error {
	return r.v.with(func(d *data) error {
		m, ok := d.members[id]
		if !ok {
			return domain.ErrNotFound
		}
		m.Status = status
		m.LifetimeSince = lifetimeSince
		m.UpdatedAt = updatedAt
		return nil
	})
}

func (r *memberRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	err := r.v.with(func(d *data) error {
		for _, m := range d.members {
			out[m.Status]++
		}
		return nil
	})
	return out, err
}

// ── Pagos ────────────────────────────────────────────────────────────────────

type paymentRepo struct{ v view }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.v.with(func(d *data) error {
		for _, other := range d.payments {
			if other.DueID == p.DueID {
				return fmt.Errorf("%w: la cuota %s ya tiene un pago", domain.ErrInvalidState, p.DueID)
			}
		}
		cp := *p
		d.payments[p.ID] = &cp
		return nil
	})
}

func (r *paymentRepo) ListByDue(_ context.Context, dueID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.v.with(func(d *data) error {
		for _, p := range d.payments {
			if p.DueID == dueID {
				cp := *p
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *paymentRepo) ListByMember(_ context.Context, memberID string, limit, offset int) ([]*entity.Payment, error) {
	var all []*entity.Payment
	err := r.v.with(func(d *data) error {
		for _, p := range d.payments {
			if p.MemberID == memberID {
				cp := *p
				all = append(all, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].PaidAt.Equal(all[j].PaidAt) {
			return all[i].PaidAt.After(all[j].PaidAt)
		}
		return all[i].ID > all[j].ID
	})
	from := min(max(offset, 0), len(all))
	to := len(all)
	if limit > 0 {
		to = min(from+limit, len(all))
	}
	return all[from:to], nil
}

var (
	_ repository.EconomicConfigRepository = (*configRepo)(nil)
	_ repository.EnrollmentRepository     = (*enrollmentRepo)(nil)
	_ repository.MemberRepository         = (*memberRepo)(nil)
	_ repository.PaymentRepository        = (*paymentRepo)(nil)
	_ repository.DueRepository            = (*dueRepo)(nil)
	_ repository.ReportRepository         = (*reportRepo)(nil)
)
