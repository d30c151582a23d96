package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
)

// LedgerHandler exposes the inventory service over HTTP.
type LedgerHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc *inventory.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

// Document returns the whole ledger in its persisted shape.
func (h *LedgerHandler) Document(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Document())
}

// Summary lists products, sheets and page balances.
func (h *LedgerHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summary())
}

// Selection returns the cursor state.
func (h *LedgerHandler) Selection(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Selection())
}

// Save flushes the ledger to the store.
func (h *LedgerHandler) Save(c *gin.Context) {
	if err := h.svc.Save(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reload replaces the in-memory ledger with the stored one.
func (h *LedgerHandler) Reload(c *gin.Context) {
	if err := h.svc.Load(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Summary())
}

// CreateProduct handles POST /products.
func (h *LedgerHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !h.bind(c, &req) {
		return
	}
	index := h.svc.CreateProduct(req.Name, req.Unit)
	c.JSON(http.StatusCreated, gin.H{"product": index})
}

// DeleteProduct handles DELETE /products/:product.
func (h *LedgerHandler) DeleteProduct(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(product); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectProduct handles POST /products/:product/select.
func (h *LedgerHandler) SelectProduct(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	h.selected(c, h.svc.SelectProduct(product), nil)
}

// CreateSheet handles POST /products/:product/sheets.
func (h *LedgerHandler) CreateSheet(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	var req models.CreateSheetRequest
	if !h.bind(c, &req) {
		return
	}
	sheet, err := h.svc.CreateSheet(product, req.Year, req.Month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product, "sheet": sheet})
}

// DeleteSheet handles DELETE /products/:product/sheets/:sheet.
func (h *LedgerHandler) DeleteSheet(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	sheet, ok := h.index(c, "sheet")
	if !ok {
		return
	}
	if err := h.svc.DeleteSheet(product, sheet); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectSheet handles POST /products/:product/sheets/:sheet/select.
func (h *LedgerHandler) SelectSheet(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	sheet, ok := h.index(c, "sheet")
	if !ok {
		return
	}
	selected, err := h.svc.SelectSheet(product, sheet)
	h.selected(c, selected, err)
}

// CreatePage handles POST /products/:product/sheets/:sheet/pages.
func (h *LedgerHandler) CreatePage(c *gin.Context) {
	product, ok := h.index(c, "product")
	if !ok {
		return
	}
	sheet, ok := h.index(c, "sheet")
	if !ok {
		return
	}
	var req models.CreatePageRequest
	if !h.bind(c, &req) {
		return
	}
	path, err := h.svc.CreatePage(product, sheet, req.Price, req.InitialStock)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, path)
}

// Page handles GET .../pages/:page.
func (h *LedgerHandler) Page(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	view, err := h.svc.Page(path)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdatePage handles PATCH .../pages/:page.
func (h *LedgerHandler) UpdatePage(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	var req models.UpdatePageRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.svc.UpdatePage(path, req.Price, req.InitialStock)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeletePage handles DELETE .../pages/:page.
func (h *LedgerHandler) DeletePage(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePage(path); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectPage handles POST .../pages/:page/select.
func (h *LedgerHandler) SelectPage(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	selected, err := h.svc.SelectPage(path)
	h.selected(c, selected, err)
}

// AppendRecord handles POST .../records.
func (h *LedgerHandler) AppendRecord(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	var req models.RecordRequest
	if !h.bind(c, &req) {
		return
	}
	rec, index, err := h.svc.AppendRecord(path, req.Entry(), req.Position)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": index, "record": rec})
}

// UpdateRecord handles PUT .../records/:record.
func (h *LedgerHandler) UpdateRecord(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	record, ok := h.index(c, "record")
	if !ok {
		return
	}
	var req models.RecordRequest
	if !h.bind(c, &req) {
		return
	}
	rec, err := h.svc.UpdateRecord(path, record, req.Entry())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": record, "record": rec})
}

// DeleteRecord handles DELETE .../records/:record.
func (h *LedgerHandler) DeleteRecord(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	record, ok := h.index(c, "record")
	if !ok {
		return
	}
	if err := h.svc.DeleteRecord(path, record); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectRecord handles POST .../records/:record/select.
func (h *LedgerHandler) SelectRecord(c *gin.Context) {
	path, ok := h.path(c)
	if !ok {
		return
	}
	record, ok := h.index(c, "record")
	if !ok {
		return
	}
	selected, err := h.svc.SelectRecord(path, record)
	h.selected(c, selected, err)
}

func (h *LedgerHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *LedgerHandler) index(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name + " index", Container: name})
		return 0, false
	}
	return v, true
}

func (h *LedgerHandler) path(c *gin.Context) (ledger.Path, bool) {
	var p ledger.Path
	var ok bool
	if p.Product, ok = h.index(c, "product"); !ok {
		return p, false
	}
	if p.Sheet, ok = h.index(c, "sheet"); !ok {
		return p, false
	}
	if p.Page, ok = h.index(c, "page"); !ok {
		return p, false
	}
	return p, true
}

// selected answers a select request. Out-of-bounds indices at the selected
// level are not errors: they report selected=false.
func (h *LedgerHandler) selected(c *gin.Context, selected bool, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": selected})
}

// fail maps service errors onto status codes and structured bodies.
func (h *LedgerHandler) fail(c *gin.Context, err error) {
	var oor *ledger.OutOfRangeError
	switch {
	case errors.As(err, &oor):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     err.Error(),
			Container: oor.Container,
			Index:     &oor.Index,
			Len:       &oor.Len,
		})
	case errors.Is(err, ledger.ErrInvalidMonth):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrMalformedState):
		h.logger.Error("stored ledger is malformed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrIO), errors.Is(err, context.DeadlineExceeded):
		h.logger.Error("ledger storage failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}
