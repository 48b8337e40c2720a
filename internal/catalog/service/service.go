// Package service implements catalog use cases on top of the repository and
// the object storage adapter.
package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"storefront_backend/internal/adapters/storage"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/logger"
)

// Service coordinates catalog operations.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
}

// New creates a new catalog service. storageSvc may be nil when object
// storage is not configured; image uploads are then rejected and responses
// carry no image URLs.
func New(repo repository.Repository, storageSvc storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: storageSvc, bucket: bucket, log: log}
}

// CreateProduct creates a new product.
func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.ProductResponse, error) {
	product, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return s.toResponse(ctx, product), nil
}

// UpdateProduct applies a partial update.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.ProductResponse, error) {
	product, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return s.toResponse(ctx, product), nil
}

// DeleteProduct removes a product from the catalog. Existing cart lines keep
// their stored snapshots; the next cart mutation touching such a line sees
// the product as absent.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

// GetProductByID retrieves one product.
func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return s.toResponse(ctx, product), nil
}

// UploadProductImage stores an image for the product and records its key.
func (s *Service) UploadProductImage(ctx context.Context, id uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.ProductResponse, error) {
	if s.storage == nil {
		return transport.ProductResponse{}, storage.ErrNotConfigured
	}
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return transport.ProductResponse{}, err
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.ProductResponse{}, err
	}

	// Ensure the product exists before touching storage.
	if _, err := s.repo.GetProductByID(ctx, id); err != nil {
		return transport.ProductResponse{}, err
	}

	fileKey, err := s.storage.UploadFile(ctx, s.bucket, id.String(), fileName, contentType, reader, size)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	product, err := s.repo.AddProductImage(ctx, id, fileKey)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return s.toResponse(ctx, product), nil
}

func (s *Service) toResponse(ctx context.Context, product repository.Product) transport.ProductResponse {
	response := transport.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Category:    product.Category,
		PriceCents:  product.PriceCents,
		Stock:       product.Stock,
		ImageURLs:   make([]string, 0, len(product.ImageKeys)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if s.storage == nil {
		return response
	}

	for _, key := range product.ImageKeys {
		presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, key)
		if err != nil {
			s.log.Warn("failed to presign product image", "product_id", product.ID, "key", key, "error", err)
			continue
		}
		response.ImageURLs = append(response.ImageURLs, presigned.URL)
	}

	return response
}
