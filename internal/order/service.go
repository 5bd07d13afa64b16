package order

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/fkhayef/billsplit/internal/receipt"
	"github.com/fkhayef/billsplit/internal/user"
)

// Common errors
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrPayerNotFound = errors.New("payer user not found")
	ErrNoItems       = errors.New("order must have at least one item")
)

// ImageStore persists receipt images and returns a public URL
type ImageStore interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
}

// Service handles order business logic
type Service struct {
	repo     *Repository
	userRepo *user.Repository
	store    ImageStore
	parser   receipt.Parser
}

// NewService creates a new order service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository, store ImageStore, parser receipt.Parser) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		store:    store,
		parser:   parser,
	}
}

// Create creates an order with its items after verifying the payer exists
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	payer, err := s.userRepo.GetByID(ctx, req.PaidByUserID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, ErrPayerNotFound
	}

	return s.repo.CreateWithItems(ctx, req)
}

// GetByID retrieves an order with its items
func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List retrieves all orders with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Order, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Delete removes an order and, via cascade, its items and splits
func (s *Service) Delete(ctx context.Context, id int64) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.repo.Delete(ctx, id)
}

// UploadReceipt stores a receipt image and hands it to the external parser
// service, returning the stored URL together with the parsed receipt data.
// OCR and LLM extraction happen in the parser service, not in this process.
func (s *Service) UploadReceipt(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadReceiptResponse, error) {
	imageURL, err := s.store.Upload(ctx, file, header)
	if err != nil {
		return nil, err
	}

	// Re-read the file for the parser upload
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(ctx, file, header.Filename)
	if err != nil {
		return nil, err
	}

	return &UploadReceiptResponse{
		ImageURL:      imageURL,
		OCRRawText:    parsed.RawText,
		OCRConfidence: parsed.Confidence,
		OCREngine:     parsed.Engine,
		ParsedData:    parsed.Receipt,
	}, nil
}
