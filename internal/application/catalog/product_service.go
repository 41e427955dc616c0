package catalog

import (
	"context"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/catalog"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPageSize caps product listing page sizes
const MaxPageSize = 100

// ProductCache is a read-through cache for product lookups
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool)
	Set(ctx context.Context, product *catalog.Product)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// ProductService handles catalog business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	imageStore     catalog.ImageStore
	cache          ProductCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetImageStore sets the store used to release replaced or orphaned images
func (s *ProductService) SetImageStore(store catalog.ImageStore) {
	s.imageStore = store
}

// SetCache sets the read-through product cache
func (s *ProductService) SetCache(cache ProductCache) {
	s.cache = cache
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	product, err := catalog.NewProduct(req.Name, req.BodyColor, req.Material, toDomainVariants(req.Variants))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrProductID, product.ID.String())

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update replaces a product's content. Images that were referenced before
// the update but not after are released from the image store.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousImages := product.AllImages()

	if err := product.Update(req.Name, req.BodyColor, req.Material, toDomainVariants(req.Variants)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.releaseImages(ctx, removedImages(previousImages, product.AllImages()))
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and releases its stored images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrProductID, id.String())

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	product.MarkDeleted()

	if err := s.productRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.invalidate(ctx, id)
	s.releaseImages(ctx, product.AllImages())
	s.publishEvents(ctx, product)

	return nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			response := ToProductResponse(product)
			return &response, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with pagination, newest first
func (s *ProductService) List(ctx context.Context, filter ListProductsFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// UpdateVariantStock sets the stock level of one variant and re-derives
// its status
func (s *ProductService) UpdateVariantStock(ctx context.Context, id uuid.UUID, variantIndex int, req UpdateVariantStockRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update_variant_stock")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, id.String(),
		telemetry.SpanAttrVariantIndex, variantIndex,
		telemetry.SpanAttrQuantity, req.Quantity,
	)

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := product.SetVariantStock(variantIndex, req.Quantity, req.Threshold); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.invalidate(ctx, id)
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

// releaseImages asks the image store to drop refs, best effort
func (s *ProductService) releaseImages(ctx context.Context, refs []string) {
	if s.imageStore == nil || len(refs) == 0 {
		return
	}
	if err := s.imageStore.Release(ctx, refs); err != nil {
		s.logger.Warn("failed to release product images",
			zap.Strings("refs", refs),
			zap.Error(err))
	}
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish product event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

// removedImages returns refs present before but absent after an update
func removedImages(before, after []string) []string {
	kept := make(map[string]struct{}, len(after))
	for _, ref := range after {
		kept[ref] = struct{}{}
	}
	var removed []string
	for _, ref := range before {
		if _, ok := kept[ref]; !ok {
			removed = append(removed, ref)
		}
	}
	return removed
}
