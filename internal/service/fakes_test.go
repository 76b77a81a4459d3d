package service

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/repository"
)

// memStore is an in-memory ledger store shared by the fake repositories.
type memStore struct {
	admins   map[uuid.UUID]model.Admin
	dairies  map[uuid.UUID]model.Dairy
	products map[uuid.UUID]model.Product
	stockIns map[uuid.UUID]model.StockIn
	sales    map[uuid.UUID]model.Sale

	clock           time.Time
	failStockUpdate error
}

func newMemStore() *memStore {
	return &memStore{
		admins:   map[uuid.UUID]model.Admin{},
		dairies:  map[uuid.UUID]model.Dairy{},
		products: map[uuid.UUID]model.Product{},
		stockIns: map[uuid.UUID]model.StockIn{},
		sales:    map[uuid.UUID]model.Sale{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) stamp(b *model.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.clock = s.clock.Add(time.Second)
	b.CreatedAt = s.clock
	b.UpdatedAt = s.clock
}

type snapshot struct {
	admins   map[uuid.UUID]model.Admin
	dairies  map[uuid.UUID]model.Dairy
	products map[uuid.UUID]model.Product
	stockIns map[uuid.UUID]model.StockIn
	sales    map[uuid.UUID]model.Sale
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() snapshot {
	return snapshot{clone(s.admins), clone(s.dairies), clone(s.products), clone(s.stockIns), clone(s.sales)}
}

func (s *memStore) restore(snap snapshot) {
	s.admins, s.dairies, s.products, s.stockIns, s.sales =
		snap.admins, snap.dairies, snap.products, snap.stockIns, snap.sales
}

// fakeTx discards every change made by fn when it fails.
type fakeTx struct{ s *memStore }

func (t fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ============ ADMINS / DAIRIES ============

type fakeAdminRepo struct{ s *memStore }

func (r fakeAdminRepo) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range r.s.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Admin, error) {
	a, ok := r.s.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r fakeAdminRepo) Create(_ context.Context, a *model.Admin) error {
	r.s.stamp(&a.BaseModel)
	r.s.admins[a.ID] = *a
	return nil
}

func (r fakeAdminRepo) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	a, ok := r.s.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Password = hashed
	r.s.admins[id] = a
	return nil
}

type fakeDairyRepo struct{ s *memStore }

func (r fakeDairyRepo) FindAll(_ context.Context) ([]model.Dairy, error) {
	out := make([]model.Dairy, 0, len(r.s.dairies))
	for _, d := range r.s.dairies {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeDairyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Dairy, error) {
	d, ok := r.s.dairies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r fakeDairyRepo) FindByUsername(_ context.Context, username string) (*model.Dairy, error) {
	for _, d := range r.s.dairies {
		if d.Username == username {
			return &d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeDairyRepo) Create(_ context.Context, d *model.Dairy) error {
	r.s.stamp(&d.BaseModel)
	r.s.dairies[d.ID] = *d
	return nil
}

func (r fakeDairyRepo) UpdateLogo(_ context.Context, id uuid.UUID, path string) error {
	d, ok := r.s.dairies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.LogoPath = &path
	r.s.dairies[id] = d
	return nil
}

func (r fakeDairyRepo) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	d, ok := r.s.dairies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Password = hashed
	r.s.dairies[id] = d
	return nil
}

// ============ PRODUCTS ============

type fakeProductRepo struct{ s *memStore }

func (r fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	r.s.stamp(&p.BaseModel)
	r.s.products[p.ID] = *p
	return nil
}

func (r fakeProductRepo) FindByDairy(_ context.Context, dairyID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.DairyID == dairyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Name, cur.Unit, cur.CostPrice, cur.SellPrice, cur.MinStock = p.Name, p.Unit, p.CostPrice, p.SellPrice, p.MinStock
	r.s.products[p.ID] = cur
	return nil
}

func (r fakeProductRepo) UpdateStock(_ context.Context, id uuid.UUID, f repository.StockFields) error {
	if r.s.failStockUpdate != nil {
		return r.s.failStockUpdate
	}
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock = f.CurrentStock
	if f.CostPrice != nil {
		p.CostPrice = *f.CostPrice
	}
	if f.SellPrice != nil {
		p.SellPrice = *f.SellPrice
	}
	r.s.products[id] = p
	return nil
}

func (r fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.products, id)
	return nil
}

func (r fakeProductRepo) CountEvents(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.s.stockIns {
		if e.ProductID == id {
			n++
		}
	}
	for _, e := range r.s.sales {
		if e.ProductID == id {
			n++
		}
	}
	return n, nil
}

// ============ EVENTS ============

func (s *memStore) productRef(id uuid.UUID) *model.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	return &p
}

func (s *memStore) dairyRef(id uuid.UUID) *model.Dairy {
	d, ok := s.dairies[id]
	if !ok {
		return nil
	}
	return &d
}

func inFilter(f report.Filter, date time.Time, dairyID, productID uuid.UUID) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	if f.DairyID != nil && *f.DairyID != dairyID {
		return false
	}
	if f.ProductID != nil && *f.ProductID != productID {
		return false
	}
	return true
}

func newestFirst(ai, bi time.Time, ac, bc time.Time) bool {
	if !ai.Equal(bi) {
		return ai.After(bi)
	}
	return ac.After(bc)
}

type fakeStockInRepo struct{ s *memStore }

func (r fakeStockInRepo) Create(_ context.Context, e *model.StockIn) error {
	r.s.stamp(&e.BaseModel)
	stored := *e
	stored.Product, stored.Dairy = nil, nil
	r.s.stockIns[e.ID] = stored
	return nil
}

func (r fakeStockInRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockIn, error) {
	e, ok := r.s.stockIns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e.Product = r.s.productRef(e.ProductID)
	return &e, nil
}

func (r fakeStockInRepo) list(pred func(model.StockIn) bool) []model.StockIn {
	var out []model.StockIn
	for _, e := range r.s.stockIns {
		if pred(e) {
			e.Product = r.s.productRef(e.ProductID)
			e.Dairy = r.s.dairyRef(e.DairyID)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].Date, out[j].Date, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out
}

func (r fakeStockInRepo) FindRecentByDairy(_ context.Context, dairyID uuid.UUID) ([]model.StockIn, error) {
	out := r.list(func(e model.StockIn) bool { return e.DairyID == dairyID })
	if len(out) > repository.RecentLimit {
		out = out[:repository.RecentLimit]
	}
	return out, nil
}

func (r fakeStockInRepo) FindForReport(_ context.Context, f report.Filter) ([]model.StockIn, error) {
	return r.list(func(e model.StockIn) bool { return inFilter(f, e.Date, e.DairyID, e.ProductID) }), nil
}

func (r fakeStockInRepo) Update(_ context.Context, e *model.StockIn) error {
	if _, ok := r.s.stockIns[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *e
	stored.Product, stored.Dairy = nil, nil
	r.s.stockIns[e.ID] = stored
	return nil
}

func (r fakeStockInRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.stockIns, id)
	return nil
}

type fakeSaleRepo struct{ s *memStore }

func (r fakeSaleRepo) Create(_ context.Context, e *model.Sale) error {
	r.s.stamp(&e.BaseModel)
	stored := *e
	stored.Product, stored.Dairy = nil, nil
	r.s.sales[e.ID] = stored
	return nil
}

func (r fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	e, ok := r.s.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e.Product = r.s.productRef(e.ProductID)
	return &e, nil
}

func (r fakeSaleRepo) list(pred func(model.Sale) bool) []model.Sale {
	var out []model.Sale
	for _, e := range r.s.sales {
		if pred(e) {
			e.Product = r.s.productRef(e.ProductID)
			e.Dairy = r.s.dairyRef(e.DairyID)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].Date, out[j].Date, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out
}

func (r fakeSaleRepo) FindRecentByDairy(_ context.Context, dairyID uuid.UUID) ([]model.Sale, error) {
	out := r.list(func(e model.Sale) bool { return e.DairyID == dairyID })
	if len(out) > repository.RecentLimit {
		out = out[:repository.RecentLimit]
	}
	return out, nil
}

func (r fakeSaleRepo) FindForReport(_ context.Context, f report.Filter) ([]model.Sale, error) {
	return r.list(func(e model.Sale) bool { return inFilter(f, e.Date, e.DairyID, e.ProductID) }), nil
}

func (r fakeSaleRepo) Update(_ context.Context, e *model.Sale) error {
	if _, ok := r.s.sales[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *e
	stored.Product, stored.Dairy = nil, nil
	r.s.sales[e.ID] = stored
	return nil
}

func (r fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.sales, id)
	return nil
}

// ============ EXPORT COLLABORATORS ============

type fakeSpreadsheet struct {
	writes  int
	lastLen int
	fail    error
	scopes  map[string]bool
}

func sheetScope(dairyID *uuid.UUID) string {
	if dairyID == nil {
		return ""
	}
	return dairyID.String()
}

func (f *fakeSpreadsheet) Write(_ context.Context, dairyID *uuid.UUID, rows []report.Row) error {
	if f.fail != nil {
		return f.fail
	}
	if f.scopes == nil {
		f.scopes = map[string]bool{}
	}
	f.writes++
	f.lastLen = len(rows)
	f.scopes[sheetScope(dairyID)] = true
	return nil
}

func (f *fakeSpreadsheet) Exists(dairyID *uuid.UUID) bool { return f.scopes[sheetScope(dairyID)] }

func (f *fakeSpreadsheet) Path(dairyID *uuid.UUID) string {
	return path.Join("static/reports", sheetScope(dairyID), "report_v3.xlsx")
}

type fakeLogos struct {
	saved    []string
	resolved []string
	fail     bool
}

func (f *fakeLogos) Save(r io.Reader, name string) (string, error) {
	if f.fail {
		return "", errors.New("unsupported image")
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	path := "static/logos/" + name
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeLogos) Resolve(p string) string {
	f.resolved = append(f.resolved, p)
	return ""
}
