package inventory

import (
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// CreateProduct appends a product and returns its index.
func (s *Service) CreateProduct(name, unit string) int {
	var index int
	_ = s.mutate(func(l *ledger.Ledger) error {
		l.CreateProduct(name, unit)
		index = l.Len() - 1
		return nil
	})
	s.logger.Info("product created", zap.Int("product", index), zap.String("name", name))
	return index
}

// DeleteProduct removes a product and everything it owns.
func (s *Service) DeleteProduct(product int) error {
	return s.mutate(func(l *ledger.Ledger) error {
		return l.DeleteProduct(product)
	})
}

// SelectProduct moves the product cursor.
func (s *Service) SelectProduct(product int) bool {
	var ok bool
	_ = s.read(func(l *ledger.Ledger) error {
		ok = l.SelectProduct(product)
		return nil
	})
	return ok
}

// CreateSheet appends a monthly sheet to a product and returns its index.
func (s *Service) CreateSheet(product, year, month int) (int, error) {
	var index int
	err := s.mutate(func(l *ledger.Ledger) error {
		p, err := l.Product(product)
		if err != nil {
			return err
		}
		if _, err := p.CreateSheet(year, month); err != nil {
			return err
		}
		index = p.Len() - 1
		return nil
	})
	return index, err
}

// DeleteSheet removes a sheet and its pages.
func (s *Service) DeleteSheet(product, sheet int) error {
	return s.mutate(func(l *ledger.Ledger) error {
		p, err := l.Product(product)
		if err != nil {
			return err
		}
		return p.DeleteSheet(sheet)
	})
}

// SelectSheet moves the sheet cursor of a product. It fails only when the
// product itself does not exist.
func (s *Service) SelectSheet(product, sheet int) (bool, error) {
	var ok bool
	err := s.read(func(l *ledger.Ledger) error {
		p, err := l.Product(product)
		if err != nil {
			return err
		}
		ok = p.SelectSheet(sheet)
		return nil
	})
	return ok, err
}

// CreatePage appends a price lot to a sheet and returns its path.
func (s *Service) CreatePage(product, sheet int, price, initialStock ledger.Quantity) (ledger.Path, error) {
	path := ledger.Path{Product: product, Sheet: sheet}
	err := s.mutate(func(l *ledger.Ledger) error {
		sh, err := l.Sheet(product, sheet)
		if err != nil {
			return err
		}
		sh.CreatePage(price, initialStock)
		path.Page = sh.Len() - 1
		return nil
	})
	return path, err
}

// DeletePage removes a page and its records.
func (s *Service) DeletePage(path ledger.Path) error {
	return s.mutate(func(l *ledger.Ledger) error {
		sh, err := l.Sheet(path.Product, path.Sheet)
		if err != nil {
			return err
		}
		return sh.DeletePage(path.Page)
	})
}

// SelectPage moves the page cursor of a sheet.
func (s *Service) SelectPage(path ledger.Path) (bool, error) {
	var ok bool
	err := s.read(func(l *ledger.Ledger) error {
		sh, err := l.Sheet(path.Product, path.Sheet)
		if err != nil {
			return err
		}
		ok = sh.SelectPage(path.Page)
		return nil
	})
	return ok, err
}

// Page returns the view of one page.
func (s *Service) Page(path ledger.Path) (models.PageView, error) {
	var view models.PageView
	err := s.read(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		view = models.NewPageView(path, pg)
		return nil
	})
	return view, err
}

// UpdatePage changes the price and/or the initial stock of a page. A new
// initial stock is propagated through every record.
func (s *Service) UpdatePage(path ledger.Path, price, initialStock *ledger.Quantity) (models.PageView, error) {
	var view models.PageView
	err := s.mutate(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		if price != nil {
			pg.Price = *price
		}
		if initialStock != nil {
			pg.SetInitialStock(*initialStock)
		}
		view = models.NewPageView(path, pg)
		return nil
	})
	return view, err
}

// AppendRecord appends a movement to a page, or inserts it before position
// when position is not nil.
func (s *Service) AppendRecord(path ledger.Path, e ledger.Entry, position *int) (ledger.Record, int, error) {
	var (
		rec   ledger.Record
		index int
	)
	err := s.mutate(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		if position == nil {
			rec = pg.AppendRecord(e)
			index = pg.Len() - 1
			return nil
		}
		rec, err = pg.InsertRecord(*position, e)
		index = *position
		return err
	})
	if err == nil {
		s.logger.Debug("record added",
			zap.Int("product", path.Product), zap.Int("sheet", path.Sheet), zap.Int("page", path.Page),
			zap.Int("record", index), zap.Stringer("closing_stock", rec.ClosingStock))
		s.warnNegative(path, index, rec)
	}
	return rec, index, err
}

// UpdateRecord rewrites a movement and the balance of every later record.
func (s *Service) UpdateRecord(path ledger.Path, record int, e ledger.Entry) (ledger.Record, error) {
	var rec ledger.Record
	err := s.mutate(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		rec, err = pg.UpdateRecord(record, e)
		return err
	})
	if err == nil {
		s.warnNegative(path, record, rec)
	}
	return rec, err
}

// warnNegative logs records whose closing stock went below zero. Such records
// are kept: the ledger reports shortages, it does not refuse them.
func (s *Service) warnNegative(path ledger.Path, index int, rec ledger.Record) {
	if !rec.ClosingStock.IsNegative() {
		return
	}
	s.logger.Warn("closing stock below zero",
		zap.Int("product", path.Product), zap.Int("sheet", path.Sheet), zap.Int("page", path.Page),
		zap.Int("record", index), zap.Stringer("closing_stock", rec.ClosingStock))
}

// DeleteRecord removes a movement and relinks the later records.
func (s *Service) DeleteRecord(path ledger.Path, record int) error {
	return s.mutate(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		return pg.DeleteRecord(record)
	})
}

// SelectRecord moves the record cursor of a page.
func (s *Service) SelectRecord(path ledger.Path, record int) (bool, error) {
	var ok bool
	err := s.read(func(l *ledger.Ledger) error {
		pg, err := l.Page(path)
		if err != nil {
			return err
		}
		ok = pg.SelectRecord(record)
		return nil
	})
	return ok, err
}
