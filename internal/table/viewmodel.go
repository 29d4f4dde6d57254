// Package table holds the view state of the contracts table: page, page size,
// search term, sort order and the records of the current page. It is shared
// by the HTML page and the terminal client.
//
// A ViewModel is driven from a single goroutine. Page and size changes return
// a Request; the caller runs Load (which may happen on any goroutine) and
// hands the Result back to Resolve. Results that belong to an older request
// are dropped.
package table

import (
	"context"
	"errors"
	"math"

	"github.com/nurpe/contracts-panel/internal/model"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// MaxPage is the highest page number the table asks for. (page-1)*size
// stays inside an int64 for any page size below 2^32.
const MaxPage = math.MaxInt32

// Loader fetches one page of contracts. page starts at 1.
type Loader interface {
	LoadPage(ctx context.Context, page, size int) ([]model.Contract, error)
}

// Annotator runs the consistency pass over a freshly loaded batch.
type Annotator interface {
	Annotate(contracts []model.Contract) []model.CheckedContract
}

type Request struct {
	Seq  uint64
	Page int
	Size int
}

type Result struct {
	Request
	Contracts []model.Contract
	Err       error
}

type Options struct {
	Page        int
	PageSize    int
	MaxPageSize int
	Search      string
	Order       model.SortOrder
	// Sorted tells whether the records are kept ordered by Order. It becomes
	// true on the first ToggleSort.
	Sorted  bool
	Status  *StatusStore
	Checker Annotator
}

type ViewModel struct {
	page        int
	pageSize    int
	maxPageSize int
	search      string
	order       model.SortOrder
	sorted      bool

	records []model.CheckedContract
	version uint64
	seq     uint64

	status  *StatusStore
	checker Annotator
	memo    projection
}

// NewViewModel returns the view state and the request for its first page.
func NewViewModel(opts Options) (*ViewModel, Request) {
	vm := &ViewModel{
		page:        opts.Page,
		pageSize:    opts.PageSize,
		maxPageSize: opts.MaxPageSize,
		search:      opts.Search,
		order:       opts.Order,
		sorted:      opts.Sorted,
		status:      opts.Status,
		checker:     opts.Checker,
	}
	if vm.page < 1 {
		vm.page = 1
	}
	if vm.page > MaxPage {
		vm.page = MaxPage
	}
	if vm.pageSize < 1 {
		vm.pageSize = 10
	}
	if vm.maxPageSize > 0 && vm.pageSize > vm.maxPageSize {
		vm.pageSize = vm.maxPageSize
	}
	if vm.order != model.SortDesc {
		vm.order = model.SortAsc
	}
	if vm.status == nil {
		vm.status = NewStatusStore()
	}
	return vm, vm.issue()
}

// Load performs the fetch for req. It does not touch any ViewModel state.
func Load(ctx context.Context, loader Loader, req Request) Result {
	contracts, err := loader.LoadPage(ctx, req.Page, req.Size)
	return Result{Request: req, Contracts: contracts, Err: err}
}

// Resolve applies res if it answers the latest request and reports whether it
// did. On failure the previous records stay in place.
func (vm *ViewModel) Resolve(res Result) bool {
	if res.Seq != vm.seq {
		return false
	}
	if res.Err != nil {
		vm.status.Fail(res.Err.Error())
		return true
	}

	records := vm.annotate(res.Contracts)
	if vm.sorted {
		sortByTotal(records, vm.order)
	}
	vm.setRecords(records)
	vm.status.Succeed()
	return true
}

func (vm *ViewModel) GoToPreviousPage() (Request, bool) {
	if vm.page <= 1 {
		return Request{}, false
	}
	vm.page--
	return vm.issue(), true
}

// GoToNextPage does not know the last page: past it the loader simply
// returns nothing. At MaxPage it stays put and reloads.
func (vm *ViewModel) GoToNextPage() Request {
	if vm.page < MaxPage {
		vm.page++
	}
	return vm.issue()
}

// SetPageSize changes the page size and refetches. Sizes above the
// configured maximum are clamped. An unchanged size issues no request.
func (vm *ViewModel) SetPageSize(size int) (Request, bool, error) {
	if size < 1 {
		return Request{}, false, ErrInvalidPageSize
	}
	if vm.maxPageSize > 0 && size > vm.maxPageSize {
		size = vm.maxPageSize
	}
	if size == vm.pageSize {
		return Request{}, false, nil
	}
	vm.pageSize = size
	return vm.issue(), true, nil
}

// Reload refetches the current page.
func (vm *ViewModel) Reload() Request {
	return vm.issue()
}

// HandleSearch stores the term exactly as typed.
func (vm *ViewModel) HandleSearch(term string) {
	vm.search = term
}

// ToggleSort flips the order flag and sorts the cached records by total
// value. The direction comes from the flag as it was before the flip: asc
// sorts descending, desc sorts ascending, so afterwards the flag names the
// order on screen.
func (vm *ViewModel) ToggleSort() {
	previous := vm.order
	vm.order = opposite(previous)
	vm.sorted = true

	records := make([]model.CheckedContract, len(vm.records))
	copy(records, vm.records)
	sortByTotal(records, opposite(previous))
	vm.setRecords(records)
}

// SortIndicator is the arrow drawn on the sort control.
func (vm *ViewModel) SortIndicator() string {
	if vm.order == model.SortAsc {
		return "↓"
	}
	return "↑"
}

func (vm *ViewModel) Page() int                 { return vm.page }
func (vm *ViewModel) PageSize() int             { return vm.pageSize }
func (vm *ViewModel) Search() string            { return vm.search }
func (vm *ViewModel) Order() model.SortOrder    { return vm.order }
func (vm *ViewModel) Sorted() bool              { return vm.sorted }
func (vm *ViewModel) Status() model.Status      { return vm.status.Snapshot() }
func (vm *ViewModel) StatusStore() *StatusStore { return vm.status }

// Records returns the cached page in its current order, unfiltered.
func (vm *ViewModel) Records() []model.CheckedContract {
	return vm.records
}

func (vm *ViewModel) issue() Request {
	vm.seq++
	vm.status.Start()
	return Request{Seq: vm.seq, Page: vm.page, Size: vm.pageSize}
}

func (vm *ViewModel) setRecords(records []model.CheckedContract) {
	vm.records = records
	vm.version++
}

func (vm *ViewModel) annotate(contracts []model.Contract) []model.CheckedContract {
	if vm.checker != nil {
		return vm.checker.Annotate(contracts)
	}
	out := make([]model.CheckedContract, len(contracts))
	for i, c := range contracts {
		out[i] = model.CheckedContract{Contract: c}
	}
	return out
}

func opposite(o model.SortOrder) model.SortOrder {
	if o == model.SortAsc {
		return model.SortDesc
	}
	return model.SortAsc
}
