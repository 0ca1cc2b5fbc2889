package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
)

// SupplierUseCase CRUD for suppliers.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	recorder *audit.Recorder
}

// NewSupplierUseCase builds the use case.
func NewSupplierUseCase(repo repository.SupplierRepository, recorder *audit.Recorder) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, recorder: recorder}
}

// Create adds a supplier.
func (uc *SupplierUseCase) Create(ctx context.Context, who entity.Identity, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s := supplierFromRequest(in)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, who, entity.ActionCreate, entity.TableSuppliers,
		fmt.Sprintf("Added supplier %d (%s)", s.ID, s.Name))
	return toSupplierResponse(s), nil
}

// GetByID returns one supplier or ErrNotFound.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update overwrites a supplier's details.
func (uc *SupplierUseCase) Update(ctx context.Context, who entity.Identity, id int64, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s := supplierFromRequest(in)
	s.ID = id
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, who, entity.ActionUpdate, entity.TableSuppliers,
		fmt.Sprintf("Updated supplier %d (%s)", s.ID, s.Name))
	return toSupplierResponse(s), nil
}

// Delete removes a supplier. Lots keep the supplier name they were received with.
func (uc *SupplierUseCase) Delete(ctx context.Context, who entity.Identity, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, who, entity.ActionDelete, entity.TableSuppliers,
		fmt.Sprintf("Deleted supplier %d", id))
	return nil
}

// List returns every supplier ordered by name.
func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return items, nil
}

func supplierFromRequest(in dto.SupplierRequest) *entity.Supplier {
	return &entity.Supplier{
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
	}
}
