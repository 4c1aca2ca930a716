// Package memstore implementación en memoria de los repositorios y del TxRunner.
// Una transacción toma el lock global y trabaja sobre una copia; si fn falla se descarta.
// Se usa en tests y con APP_ENV=demo.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

var _ billing.TxRunner = (*Store)(nil)

type data struct {
	configs     map[string]*entity.EconomicConfig // por slug
	enrollments map[string]*entity.Enrollment
	dues        map[string]*entity.Due
	payments    map[string]*entity.Payment
	members     map[string]*entity.Member
}

func newData() *data {
	return &data{
		configs:     map[string]*entity.EconomicConfig{},
		enrollments: map[string]*entity.Enrollment{},
		dues:        map[string]*entity.Due{},
		payments:    map[string]*entity.Payment{},
		members:     map[string]*entity.Member{},
	}
}

func (d *data) clone() *data {
	out := newData()
	for k, v := range d.configs {
		c := *v
		out.configs[k] = &c
	}
	for k, v := range d.enrollments {
		e := *v
		out.enrollments[k] = &e
	}
	for k, v := range d.dues {
		due := *v
		out.dues[k] = &due
	}
	for k, v := range d.payments {
		p := *v
		out.payments[k] = &p
	}
	for k, v := range d.members {
		m := *v
		out.members[k] = &m
	}
	return out
}

// Store base en memoria.
type Store struct {
	mu sync.Mutex
	d  *data
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData()}
}

// Run ejecuta fn en exclusión mutua y aplica los cambios solo si no hubo error.
func (s *Store) Run(ctx context.Context, fn func(r billing.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.d.clone()
	if err := fn(reposFor(&txView{d: work})); err != nil {
		return err
	}
	s.d = work
	return nil
}

// RunReadOnly ejecuta fn sobre una copia; los cambios se descartan.
func (s *Store) RunReadOnly(ctx context.Context, fn func(r billing.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()
	return fn(reposFor(&txView{d: snapshot}))
}

// Repos repositorios fuera de transacción; cada llamada toma el lock.
func (s *Store) Repos() billing.Repos {
	return reposFor(&lockedView{s: s})
}

// Reports repositorio de reportes fuera de transacción.
func (s *Store) Reports() repository.ReportRepository {
	return &reportRepo{v: &lockedView{s: s}}
}

// view acceso a los datos: dentro de una transacción ya se tiene el lock.
type view interface {
	with(fn func(d *data) error) error
}

type txView struct{ d *data }

func (v *txView) with(fn func(d *data) error) error { return fn(v.d) }

type lockedView struct{ s *Store }

func (v *lockedView) with(fn func(d *data) error) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.d)
}

func reposFor(v view) billing.Repos {
	return billing.Repos{
		Configs:     &configRepo{v: v},
		Enrollments: &enrollmentRepo{v: v},
		Dues:        &dueRepo{v: v},
		Payments:    &paymentRepo{v: v},
		Members:     &memberRepo{v: v},
	}
}
