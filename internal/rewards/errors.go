package rewards

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPoints is returned when the balance cannot cover a price.
	ErrInsufficientPoints = errors.New("not enough points")

	// ErrAlreadyOwned is returned when buying an item the player owns.
	ErrAlreadyOwned = errors.New("already owned")

	// ErrUnknownItem is returned for IDs missing from the catalog or not for sale.
	ErrUnknownItem = errors.New("unknown item")

	// ErrNotOwned is returned when equipping an item the player does not own.
	ErrNotOwned = errors.New("not owned")
)

// PurchaseError describes a failed purchase.
type PurchaseError struct {
	Kind  Kind
	ID    string
	Price int
	Have  int
	Err   error
}

func (e *PurchaseError) Error() string {
	if errors.Is(e.Err, ErrInsufficientPoints) {
		return fmt.Sprintf("buy %s %q: %v (costs %d, have %d)", e.Kind, e.ID, e.Err, e.Price, e.Have)
	}
	return fmt.Sprintf("buy %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *PurchaseError) Unwrap() error { return e.Err }
