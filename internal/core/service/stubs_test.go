package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory library: implements both BookRepository and CheckoutRepository so
// that book views reflect checkout state the way the SQL joins do.
// ---------------------------------------------------------------------------

type memBook struct {
	book      domain.Book
	createdAt time.Time
}

type memLibrary struct {
	users     map[uuid.UUID]string
	books     map[uuid.UUID]*memBook
	checkouts []domain.Checkout
	clock     time.Time

	createErr error
	findErr   error

	// onCreate and onCheckout run at the start of the matching Create, while
	// the caller's idempotency key is still pending.
	onCreate   func()
	onCheckout func()
}

func newMemLibrary() *memLibrary {
	return &memLibrary{
		users: make(map[uuid.UUID]string),
		books: make(map[uuid.UUID]*memBook),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memLibrary) addUser(name string) uuid.UUID {
	id := uuid.New()
	m.users[id] = name
	return id
}

func (m *memLibrary) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memLibrary) Create(_ context.Context, cmd domain.CreateBook, ownerID uuid.UUID) error {
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.createErr != nil {
		return m.createErr
	}
	name, ok := m.users[ownerID]
	if !ok {
		return domain.NewPersistenceError("insert book", errors.New("violates foreign key constraint"))
	}
	id := uuid.New()
	m.books[id] = &memBook{
		book: domain.Book{
			ID:          id,
			Title:       cmd.Title,
			Author:      cmd.Author,
			ISBN:        cmd.ISBN,
			Description: cmd.Description,
			Owner:       domain.BookOwner{ID: ownerID, Name: name},
		},
		createdAt: m.tick(),
	}
	return nil
}

func (m *memLibrary) view(b *memBook) domain.Book {
	out := b.book
	for _, c := range m.checkouts {
		if c.BookID == out.ID && c.ReturnedAt == nil {
			out.Checkout = &domain.BookCheckout{
				CheckoutID:   c.ID,
				CheckedOutBy: domain.BookOwner{ID: c.CheckedOutBy, Name: m.users[c.CheckedOutBy]},
				CheckedOutAt: c.CheckedOutAt,
			}
		}
	}
	return out
}

func (m *memLibrary) FindAll(_ context.Context, opts domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	if m.findErr != nil {
		return domain.PaginatedList[domain.Book]{}, m.findErr
	}
	all := make([]*memBook, 0, len(m.books))
	for _, b := range m.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.After(all[j].createdAt) })

	list := domain.PaginatedList[domain.Book]{Limit: opts.Limit, Offset: opts.Offset, Items: []domain.Book{}}
	if opts.Offset >= int64(len(all)) {
		return list, nil
	}
	list.Total = int64(len(all))
	end := opts.Offset + opts.Limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	for _, b := range all[opts.Offset:end] {
		list.Items = append(list.Items, m.view(b))
	}
	return list, nil
}

func (m *memLibrary) FindByID(_ context.Context, id uuid.UUID) (*domain.Book, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	v := m.view(b)
	return &v, nil
}

func (m *memLibrary) Update(_ context.Context, cmd domain.UpdateBook) error {
	b, ok := m.books[cmd.BookID]
	if !ok || b.book.Owner.ID != cmd.RequestedUser {
		return domain.NewEntityNotFound("specified book not found")
	}
	b.book.Title, b.book.Author, b.book.ISBN, b.book.Description = cmd.Title, cmd.Author, cmd.ISBN, cmd.Description
	return nil
}

func (m *memLibrary) Delete(_ context.Context, cmd domain.DeleteBook) error {
	b, ok := m.books[cmd.BookID]
	if !ok || b.book.Owner.ID != cmd.RequestedUser {
		return domain.NewEntityNotFound("specified book not found")
	}
	delete(m.books, cmd.BookID)
	return nil
}

// checkoutRepo adapts memLibrary to CheckoutRepository; its Create method
// would otherwise clash with the book one.
type checkoutRepo struct{ m *memLibrary }

func (r checkoutRepo) Create(_ context.Context, cmd domain.CreateCheckout) (uuid.UUID, error) {
	if r.m.onCheckout != nil {
		r.m.onCheckout()
	}
	if _, ok := r.m.books[cmd.BookID]; !ok {
		return uuid.Nil, domain.NewEntityNotFound("book not found")
	}
	for _, c := range r.m.checkouts {
		if c.BookID == cmd.BookID && c.ReturnedAt == nil {
			return uuid.Nil, domain.ErrBookAlreadyCheckedOut
		}
	}
	id := uuid.New()
	r.m.checkouts = append(r.m.checkouts, domain.Checkout{
		ID:           id,
		BookID:       cmd.BookID,
		CheckedOutBy: cmd.CheckedOutBy,
		CheckedOutAt: cmd.CheckedOutAt,
	})
	return id, nil
}

func (r checkoutRepo) UpdateReturned(_ context.Context, cmd domain.UpdateReturned) error {
	for i := range r.m.checkouts {
		c := &r.m.checkouts[i]
		if c.ID == cmd.CheckoutID && c.BookID == cmd.BookID && c.ReturnedAt == nil {
			by, at := cmd.ReturnedBy, cmd.ReturnedAt
			c.ReturnedBy, c.ReturnedAt = &by, &at
			return nil
		}
	}
	return domain.NewEntityNotFound("specified checkout not found")
}

func (r checkoutRepo) FindUnreturnedAll(_ context.Context) ([]domain.Checkout, error) {
	var out []domain.Checkout
	for _, c := range r.m.checkouts {
		if c.ReturnedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r checkoutRepo) FindHistoryByBookID(_ context.Context, bookID uuid.UUID) ([]domain.Checkout, error) {
	var out []domain.Checkout
	for i := len(r.m.checkouts) - 1; i >= 0; i-- {
		if r.m.checkouts[i].BookID == bookID {
			out = append(out, r.m.checkouts[i])
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Idempotency store
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	keys       map[string]ports.IdempotencyState
	reserveErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]ports.IdempotencyState)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string) (ports.IdempotencyState, error) {
	if s.reserveErr != nil {
		return ports.IdempotencyNew, s.reserveErr
	}
	if state, ok := s.keys[key]; ok {
		return state, nil
	}
	s.keys[key] = ports.IdempotencyPending
	return ports.IdempotencyNew, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key string) error {
	s.keys[key] = ports.IdempotencyDone
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}
