package businessflow

import (
	"context"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
)

// CatalogFlow exposes read-only access to categories, services and tour packages
type CatalogFlow interface {
	ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error)
	ListServices(ctx context.Context, categoryID *uint, page, pageSize uint) (*dto.ListServicesResponse, error)
	GetService(ctx context.Context, serviceID uint) (*dto.ServiceDTO, error)
	ListTourPackages(ctx context.Context, categoryID *uint) (*dto.ListTourPackagesResponse, error)
	GetTourPackage(ctx context.Context, packageID uint) (*dto.TourPackageDTO, error)
}

// CatalogFlowImpl implements CatalogFlow
type CatalogFlowImpl struct {
	categoryRepo repository.CategoryRepository
	serviceRepo  repository.ServiceRepository
	packageRepo  repository.TourPackageRepository
}

func NewCatalogFlow(categoryRepo repository.CategoryRepository, serviceRepo repository.ServiceRepository, packageRepo repository.TourPackageRepository) CatalogFlow {
	return &CatalogFlowImpl{categoryRepo: categoryRepo, serviceRepo: serviceRepo, packageRepo: packageRepo}
}

// ListCategories returns all catalog categories
func (f *CatalogFlowImpl) ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	rows, err := f.categoryRepo.ByFilter(ctx, models.CategoryFilter{}, "name ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LIST_FAILED", "Failed to list categories", err)
	}

	out := &dto.ListCategoriesResponse{Items: make([]dto.CategoryDTO, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, dto.CategoryDTO{ID: row.ID, Name: row.Name})
	}
	out.Total = len(out.Items)
	return out, nil
}

// ListServices returns publicly visible services, optionally by category
func (f *CatalogFlowImpl) ListServices(ctx context.Context, categoryID *uint, page, pageSize uint) (*dto.ListServicesResponse, error) {
	visible := true
	filter := models.ServiceFilter{PublicVisible: &visible, CategoryID: categoryID}

	limit := int(pageSize)
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := 0
	if page > 1 {
		offset = (int(page) - 1) * limit
	}

	rows, err := f.serviceRepo.ByFilter(ctx, filter, "title ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LIST_FAILED", "Failed to list services", err)
	}

	out := &dto.ListServicesResponse{Items: make([]dto.ServiceDTO, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, toServiceDTO(row))
	}
	out.Total = len(out.Items)
	return out, nil
}

// GetService returns one visible service
func (f *CatalogFlowImpl) GetService(ctx context.Context, serviceID uint) (*dto.ServiceDTO, error) {
	service, err := f.serviceRepo.ByID(ctx, serviceID)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LOOKUP_FAILED", "Failed to load service", err)
	}
	if service == nil || (service.PublicVisible != nil && !*service.PublicVisible) {
		return nil, NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
	}
	out := toServiceDTO(service)
	return &out, nil
}

// ListTourPackages returns tour packages, optionally by category
func (f *CatalogFlowImpl) ListTourPackages(ctx context.Context, categoryID *uint) (*dto.ListTourPackagesResponse, error) {
	rows, err := f.packageRepo.ByFilter(ctx, models.TourPackageFilter{CategoryID: categoryID}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_LIST_FAILED", "Failed to list tour packages", err)
	}

	out := &dto.ListTourPackagesResponse{Items: make([]dto.TourPackageDTO, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, toTourPackageDTO(row))
	}
	out.Total = len(out.Items)
	return out, nil
}

// GetTourPackage returns one tour package
func (f *CatalogFlowImpl) GetTourPackage(ctx context.Context, packageID uint) (*dto.TourPackageDTO, error) {
	rows, err := f.packageRepo.ByFilter(ctx, models.TourPackageFilter{ID: &packageID}, "", 1, 0)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_LOOKUP_FAILED", "Failed to load tour package", err)
	}
	if len(rows) == 0 {
		return nil, NewBusinessError("PACKAGE_NOT_FOUND", "Tour package not found", ErrServiceNotFound)
	}
	out := toTourPackageDTO(rows[0])
	return &out, nil
}

func toServiceDTO(service *models.Service) dto.ServiceDTO {
	out := dto.ServiceDTO{
		ID:          service.ID,
		Title:       service.Title,
		Description: service.Description,
		Type:        service.Type,
		Cost:        service.Cost.StringFixed(2),
		CategoryID:  service.CategoryID,
		Days:        service.Days,
		Included:    service.Included,
		Images:      service.Images,
	}
	if service.Rating != nil {
		rating := service.Rating.StringFixed(1)
		out.Rating = &rating
	}
	return out
}

func toTourPackageDTO(pkg *models.TourPackage) dto.TourPackageDTO {
	out := dto.TourPackageDTO{
		ID:               pkg.ID,
		Name:             pkg.Name,
		Location:         pkg.Location,
		ShortDescription: pkg.ShortDescription,
		Rating:           pkg.Rating.StringFixed(1),
		ReviewCount:      pkg.ReviewCount,
		Price:            pkg.Price,
		OriginalPrice:    pkg.OriginalPrice,
		Duration:         pkg.Duration,
		MaxPeople:        pkg.MaxPeople,
		Difficulty:       pkg.Difficulty,
		Included:         pkg.Included,
		NotIncluded:      pkg.NotIncluded,
		Images:           pkg.Images,
		CategoryID:       pkg.CategoryID,
	}
	for _, service := range pkg.Services {
		out.ServiceIDs = append(out.ServiceIDs, service.ID)
	}
	return out
}
