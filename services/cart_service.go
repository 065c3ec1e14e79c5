package services

import (
	"context"
	"errors"

	"storefront-backend/cache"
	"storefront-backend/dtos"
	"storefront-backend/logger"
	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
	Quantity  int
}

type RemoveItemInput struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// CartService runs every cart operation for an explicitly passed user. Each call
// get-or-creates the user's cart and commits or rolls back as one transaction.
type CartService struct {
	store  repository.Store
	cache  cache.CartCache
	log    *logger.Logger
	tracer trace.Tracer
}

func NewCartService(store repository.Store, cartCache cache.CartCache, log *logger.Logger) *CartService {
	if cartCache == nil {
		cartCache = cache.NewNoop()
	}
	return &CartService{
		store:  store,
		cache:  cartCache,
		log:    log.With("service", "CartService"),
		tracer: otel.Tracer("storefront-backend/services"),
	}
}

// GetCart returns the user's cart. A cached snapshot only saves the cart and line
// lookups; prices and stock always come from the catalog.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*dtos.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart", trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	snap, gen, hit := s.cache.Lookup(ctx, userID)
	if hit {
		view, err := s.renderSnapshot(ctx, snap)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return view, nil
		}
		if !errors.Is(err, errSnapshotStale) {
			s.log.Warn("rendering cached cart failed", "user_id", userID, "error", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	var cart *models.Cart
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		found, err := tx.Carts().FindOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}
		cart, err = tx.Carts().LoadView(ctx, found.ID)
		return err
	})
	if err != nil {
		return nil, s.fail(span, "get cart", userID, err)
	}

	s.cache.Fill(ctx, userID, gen, snapshotOf(cart))
	return dtos.NewCartResponse(cart), nil
}

// AddItem merges into an existing line for the same variant. Only the requested
// increment is checked against stock.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, in AddItemInput) (*dtos.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("product.id", in.ProductID.String()),
		attribute.Int("quantity", in.Quantity),
	))
	defer span.End()

	var view *dtos.CartResponse
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}

		sku, quantity, err := NewCartItemValidator(tx.Catalog(), tx.Carts()).
			ValidateAdd(ctx, in.ProductID, in.Size, in.Color, in.Quantity)
		if err != nil {
			return err
		}

		if err := tx.Carts().UpsertItem(ctx, cart.ID, sku.ID, quantity); err != nil {
			return err
		}
		if err := tx.Carts().Touch(ctx, cart.ID); err != nil {
			return err
		}
		view, err = s.render(ctx, tx, cart.ID)
		return err
	})
	s.cache.Invalidate(ctx, userID)
	if err != nil {
		return nil, s.fail(span, "add item", userID, err)
	}

	s.log.Debug("cart item added", "user_id", userID, "product_id", in.ProductID, "quantity", in.Quantity)
	return view, nil
}

// SetQuantity overwrites the quantity of a line in the user's own cart. A quantity of
// zero or less deletes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, cartItemID uuid.UUID, quantity int) (*dtos.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.SetQuantity", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("cart_item.id", cartItemID.String()),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	var view *dtos.CartResponse
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}
		if cartItemID == uuid.Nil {
			return malformed("cart_item_id is required.")
		}

		item, err := tx.Carts().FindItemByID(ctx, cart.ID, cartItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		if quantity > 0 {
			err = tx.Carts().SetItemQuantity(ctx, item.ID, quantity)
		} else {
			err = tx.Carts().DeleteItem(ctx, item.ID)
		}
		if err != nil {
			return err
		}
		if err := tx.Carts().Touch(ctx, cart.ID); err != nil {
			return err
		}
		view, err = s.render(ctx, tx, cart.ID)
		return err
	})
	s.cache.Invalidate(ctx, userID)
	if err != nil {
		return nil, s.fail(span, "set quantity", userID, err)
	}
	return view, nil
}

// RemoveItem deletes the line for (product, size, color) from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, in RemoveItemInput) (*dtos.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("product.id", in.ProductID.String()),
	))
	defer span.End()

	var view *dtos.CartResponse
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}

		item, err := NewCartItemValidator(tx.Catalog(), tx.Carts()).
			ValidateDelete(ctx, cart.ID, in.ProductID, in.Size, in.Color)
		if err != nil {
			return err
		}

		if err := tx.Carts().DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		if err := tx.Carts().Touch(ctx, cart.ID); err != nil {
			return err
		}
		view, err = s.render(ctx, tx, cart.ID)
		return err
	})
	s.cache.Invalidate(ctx, userID)
	if err != nil {
		return nil, s.fail(span, "remove item", userID, err)
	}

	s.log.Debug("cart item removed", "user_id", userID, "product_id", in.ProductID)
	return view, nil
}

// errSnapshotStale means a cached line points at a variant that no longer exists.
var errSnapshotStale = errors.New("cart snapshot references a missing variant")

func (s *CartService) renderSnapshot(ctx context.Context, snap *cache.Snapshot) (*dtos.CartResponse, error) {
	ids := make([]uuid.UUID, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		ids = append(ids, line.ProductSKUID)
	}
	skus, err := s.store.Catalog().LoadSKUs(ctx, ids)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{ID: snap.CartID, Items: make([]models.CartItem, 0, len(snap.Lines))}
	for _, line := range snap.Lines {
		sku, ok := skus[line.ProductSKUID]
		if !ok {
			return nil, errSnapshotStale
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:           line.ID,
			CartID:       snap.CartID,
			ProductSKUID: line.ProductSKUID,
			ProductSKU:   sku,
			Quantity:     line.Quantity,
			AddedAt:      line.AddedAt,
		})
	}
	return dtos.NewCartResponse(cart), nil
}

func snapshotOf(cart *models.Cart) *cache.Snapshot {
	snap := &cache.Snapshot{CartID: cart.ID, Lines: make([]cache.Line, 0, len(cart.Items))}
	for _, item := range cart.Items {
		snap.Lines = append(snap.Lines, cache.Line{
			ID:           item.ID,
			ProductSKUID: item.ProductSKUID,
			Quantity:     item.Quantity,
			AddedAt:      item.AddedAt,
		})
	}
	return snap
}

func (s *CartService) render(ctx context.Context, tx repository.Store, cartID uuid.UUID) (*dtos.CartResponse, error) {
	cart, err := tx.Carts().LoadView(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return dtos.NewCartResponse(cart), nil
}

// fail records err on the span. Client errors are returned as-is; anything else is
// logged since the handler will only show a generic message.
func (s *CartService) fail(span trace.Span, op string, userID uuid.UUID, err error) error {
	span.RecordError(err)
	if IsClientError(err) {
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.log.Error("cart operation failed", "op", op, "user_id", userID, "error", err)
	return err
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrItemNotFound)
}
