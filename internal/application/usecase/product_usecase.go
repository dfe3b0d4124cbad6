// Package usecase contiene los casos de uso del catálogo de productos.
package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/internal/domain/entity"
	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo. Stock y costo promedio nacen en cero y
// solo los mutan los casos de uso de ledger; aquí nunca se tocan.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registra un producto con stock y costo promedio en cero.
// ErrDuplicate si el usuario ya tiene un producto con ese nombre.
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByUserAndName(userID, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Name:                 in.Name,
		Unit:                 in.Unit,
		CurrentStock:         decimal.Zero,
		AveragePurchasePrice: decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List devuelve el catálogo del usuario ordenado por nombre.
func (uc *ProductUseCase) List(userID string) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// GetByID devuelve un producto del usuario; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update cambia nombre y/o unidad. Stock y promedio no son editables.
func (uc *ProductUseCase) Update(userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		if *in.Name != product.Name {
			existing, err := uc.productRepo.GetByUserAndName(userID, *in.Name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Name = *in.Name
	}
	if in.Unit != nil {
		if *in.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto del catálogo. Si tiene compras o ventas, la FK
// lo impide y la infraestructura lo reporta como ErrConflict.
func (uc *ProductUseCase) Delete(userID, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.UserID != userID {
		return domain.ErrForbidden
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Unit:                 p.Unit,
		CurrentStock:         p.CurrentStock,
		AveragePurchasePrice: p.AveragePurchasePrice.Round(2),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
