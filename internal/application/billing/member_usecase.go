package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// MemberUseCase alta y consulta de socios.
type MemberUseCase struct {
	engine *Engine
}

// NewMemberUseCase construye el caso de uso.
func NewMemberUseCase(engine *Engine) *MemberUseCase {
	return &MemberUseCase{engine: engine}
}

// Create registra un socio. Sin inscripción su estado inicial es INACTIVE.
func (uc *MemberUseCase) Create(ctx context.Context, in dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	doc := strings.TrimSpace(in.DocumentNumber)
	name := strings.TrimSpace(in.FirstName)
	if doc == "" || name == "" {
		return nil, fmt.Errorf("%w: documento y nombre son obligatorios", domain.ErrValidation)
	}
	now := uc.engine.Now()
	m := &entity.Member{
		ID:             uuid.New().String(),
		UserID:         in.UserID,
		DocumentNumber: doc,
		FirstName:      name,
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Status:         entity.MemberStatusInactive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.engine.tx.Run(ctx, func(r Repos) error {
		if err := r.Members.Create(ctx, m); err != nil {
			return fmt.Errorf("crear socio: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toMemberResponse(m)
	return &out, nil
}

// Get devuelve un socio.
func (uc *MemberUseCase) Get(ctx context.Context, memberID string) (*dto.MemberResponse, error) {
	var out dto.MemberResponse
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		m, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("obtener socio %s: %w", memberID, err)
		}
		if m == nil {
			return fmt.Errorf("%w: socio %s", domain.ErrNotFound, memberID)
		}
		out = toMemberResponse(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista socios, opcionalmente filtrados por estado.
func (uc *MemberUseCase) List(ctx context.Context, in dto.ListMembersRequest) (*dto.MemberListResponse, error) {
	if in.Status != "" && !isMemberStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado de socio %q", domain.ErrValidation, in.Status)
	}
	page := dto.PageRequest{Page: in.Page, PerPage: in.PerPage}
	page.DefaultPage()

	out := &dto.MemberListResponse{}
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		list, total, err := r.Members.List(ctx, in.Status, page.PerPage, page.Offset())
		if err != nil {
			return fmt.Errorf("listar socios: %w", err)
		}
		out.Items = make([]dto.MemberResponse, 0, len(list))
		for _, m := range list {
			out.Items = append(out.Items, toMemberResponse(m))
		}
		out.PageResponse = dto.NewPageResponse(page, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isMemberStatus(s string) bool {
	switch s {
	case entity.MemberStatusActive, entity.MemberStatusInactive, entity.MemberStatusPending, entity.MemberStatusVitalicio:
		return true
	}
	return false
}
