package billing_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/careflow/hms-api/internal/domain"
	"github.com/careflow/hms-api/internal/domain/entity"
	"github.com/careflow/hms-api/internal/domain/repository"
)

// Fakes en memoria con semántica transaccional real: el runner clona el estado,
// ejecuta la función sobre el clon y solo lo publica si no hubo error. Así los
// tests verifican el rollback de verdad, no solo el error devuelto.

type billingState struct {
	users     map[string]*entity.User
	services  map[string]*entity.Service
	inventory map[string]*entity.InventoryItem
	invoices  map[string]*entity.Invoice
	invItems  []*entity.InvoiceItem
	walletTxs []*entity.WalletTransaction
}

func newBillingState() *billingState {
	return &billingState{
		users:     make(map[string]*entity.User),
		services:  make(map[string]*entity.Service),
		inventory: make(map[string]*entity.InventoryItem),
		invoices:  make(map[string]*entity.Invoice),
	}
}

func (s *billingState) clone() *billingState {
	c := newBillingState()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.services {
		svc := *v
		c.services[k] = &svc
	}
	for k, v := range s.inventory {
		it := *v
		c.inventory[k] = &it
	}
	for k, v := range s.invoices {
		inv := *v
		c.invoices[k] = &inv
	}
	c.invItems = append(c.invItems, s.invItems...)
	c.walletTxs = append(c.walletTxs, s.walletTxs...)
	return c
}

// ── AccountRepository ─────────────────────────────────────────────────────────

type memAccountRepo struct{ s *billingState }

func (r *memAccountRepo) Create(_ context.Context, u *entity.User) error {
	r.s.users[u.ID] = u
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *memAccountRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}

func (r *memAccountRepo) GetBalanceForUpdate(_ context.Context, userID string) (decimal.Decimal, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	return u.WalletBalance, nil
}

func (r *memAccountRepo) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.GetBalanceForUpdate(ctx, userID)
}

func (r *memAccountRepo) AddToBalance(_ context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	u.WalletBalance = u.WalletBalance.Add(delta)
	return u.WalletBalance, nil
}

// ── WalletTransactionRepository ───────────────────────────────────────────────

type memWalletTxRepo struct{ s *billingState }

func (r *memWalletTxRepo) Create(_ context.Context, tx *entity.WalletTransaction) error {
	r.s.walletTxs = append(r.s.walletTxs, tx)
	return nil
}

func (r *memWalletTxRepo) ListRecentByUser(_ context.Context, userID string, limit int) ([]*entity.WalletTransaction, error) {
	var out []*entity.WalletTransaction
	for i := len(r.s.walletTxs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.walletTxs[i].UserID == userID {
			out = append(out, r.s.walletTxs[i])
		}
	}
	return out, nil
}

// ── ServiceRepository ─────────────────────────────────────────────────────────

type memServiceRepo struct{ s *billingState }

func (r *memServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.services[svc.ID] = svc
	return nil
}

func (r *memServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return svc, nil
}

func (r *memServiceRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Service, error) {
	out := make(map[string]*entity.Service, len(ids))
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (r *memServiceRepo) ListActive(context.Context) ([]*entity.Service, error) { return nil, nil }
func (r *memServiceRepo) List(context.Context) ([]*entity.Service, error)       { return nil, nil }
func (r *memServiceRepo) Delete(context.Context, string) error                  { return nil }

// ── InventoryRepository ───────────────────────────────────────────────────────

type memInventoryRepo struct{ s *billingState }

func (r *memInventoryRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.inventory[item.ID] = item
	return nil
}

func (r *memInventoryRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	item, ok := r.s.inventory[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (r *memInventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *memInventoryRepo) DecrementStock(_ context.Context, id string, qty int) error {
	item, ok := r.s.inventory[id]
	if !ok {
		return domain.ErrInventoryItemNotFound
	}
	item.CurrentStock -= qty
	item.LastUpdated = time.Now()
	return nil
}

func (r *memInventoryRepo) SetStock(_ context.Context, id string, newStock int) (*entity.InventoryItem, error) {
	item, ok := r.s.inventory[id]
	if !ok {
		return nil, nil
	}
	item.CurrentStock = newStock
	item.LastUpdated = time.Now()
	return item, nil
}

func (r *memInventoryRepo) List(context.Context) ([]*entity.InventoryItem, error) { return nil, nil }
func (r *memInventoryRepo) CountLowStock(context.Context) (int, error)            { return 0, nil }
func (r *memInventoryRepo) Delete(context.Context, string) error                  { return nil }

// ── InvoiceRepository ─────────────────────────────────────────────────────────

type memInvoiceRepo struct{ s *billingState }

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.s.invItems = append(r.s.invItems, item)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return inv, nil
}

func (r *memInvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *memInvoiceRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.TotalAmount = total
	return nil
}

func (r *memInvoiceRepo) UpdatePayment(_ context.Context, id string, amountPaid decimal.Decimal, status string) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.AmountPaid = amountPaid
	inv.Status = status
	return nil
}

func (r *memInvoiceRepo) GetItemsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	for _, it := range r.s.invItems {
		if it.InvoiceID == invoiceID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) ListByUser(_ context.Context, userID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) ListAll(context.Context) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *memInvoiceRepo) OutstandingBalanceByUser(_ context.Context, userID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.UserID == userID && inv.Status != entity.InvoiceStatusPaid {
			total = total.Add(inv.TotalAmount.Sub(inv.AmountPaid))
		}
	}
	return total, nil
}

// ── BillingTxRunner ───────────────────────────────────────────────────────────

type memBillingTxRunner struct{ s *billingState }

func (tr *memBillingTxRunner) RunBilling(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	walletTxRepo repository.WalletTransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	inventoryRepo repository.InventoryRepository,
) error) error {
	tmp := tr.s.clone()
	err := fn(
		&memAccountRepo{tmp},
		&memWalletTxRepo{tmp},
		&memInvoiceRepo{tmp},
		&memServiceRepo{tmp},
		&memInventoryRepo{tmp},
	)
	if err != nil {
		return err // rollback: el clon se descarta
	}
	*tr.s = *tmp // commit
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
