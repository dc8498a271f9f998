package handler

import (
	"github.com/shelfkeep/library-api/internal/core/domain"
)

func (r bookRequest) toCreateBook() domain.CreateBook {
	return domain.CreateBook{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}

func toBookView(b *domain.Book) bookView {
	v := bookView{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		Owner:       userRef{ID: b.Owner.ID, Name: b.Owner.Name},
	}
	if b.IsCheckedOut() {
		v.Checkout = &bookCheckoutView{
			ID:           b.Checkout.CheckoutID,
			Borrower:     userRef{ID: b.Checkout.CheckedOutBy.ID, Name: b.Checkout.CheckedOutBy.Name},
			CheckedOutAt: b.Checkout.CheckedOutAt,
		}
	}
	return v
}

// toBookViews never returns nil so an empty page encodes as [].
func toBookViews(books []domain.Book) []bookView {
	out := make([]bookView, 0, len(books))
	for i := range books {
		out = append(out, toBookView(&books[i]))
	}
	return out
}

func toCheckoutViews(checkouts []domain.Checkout) []checkoutView {
	out := make([]checkoutView, 0, len(checkouts))
	for i := range checkouts {
		c := &checkouts[i]
		out = append(out, checkoutView{
			ID:           c.ID,
			BookID:       c.BookID,
			CheckedOutBy: c.CheckedOutBy,
			CheckedOutAt: c.CheckedOutAt,
			ReturnedBy:   c.ReturnedBy,
			ReturnedAt:   c.ReturnedAt,
			State:        string(c.State()),
		})
	}
	return out
}
