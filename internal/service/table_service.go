package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nurpe/contracts-panel/internal/model"
	"github.com/nurpe/contracts-panel/internal/table"
)

type TableAction string

const (
	TableActionNone     TableAction = ""
	TableActionPrevious TableAction = "prev"
	TableActionNext     TableAction = "next"
	TableActionToggle   TableAction = "toggle"
)

// TableQuery is the table state carried in the page URL. Order and Sorted
// describe the state before Action is applied.
type TableQuery struct {
	Page   int
	Size   int
	Search string
	Order  model.SortOrder
	Sorted bool
	Action TableAction
}

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

type ExportInput struct {
	Query     TableQuery
	Format    ExportFormat
	Principal model.Principal
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// OpenTable rebuilds the table for one request: it applies the navigation
// action, loads the resulting page and then applies search and sort. A failed
// load is reported through the returned view's status, not as an error.
func (s *ContractService) OpenTable(ctx context.Context, q TableQuery) (*table.ViewModel, error) {
	if q.Size == 0 {
		q.Size = s.pageSize
	}
	if q.Page < 0 || q.Size < 0 {
		return nil, fmt.Errorf("%w: page and size must be positive", ErrInvalidInput)
	}

	vm, req := table.NewViewModel(table.Options{
		Page:        q.Page,
		PageSize:    q.Size,
		MaxPageSize: s.maxPageSize,
		Order:       q.Order,
		Sorted:      q.Sorted,
		Checker:     s.checker,
	})

	switch q.Action {
	case TableActionPrevious:
		if prev, ok := vm.GoToPreviousPage(); ok {
			req = prev
		}
	case TableActionNext:
		req = vm.GoToNextPage()
	case TableActionNone, TableActionToggle:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, q.Action)
	}

	vm.Resolve(table.Load(ctx, s, req))
	if q.Action == TableActionToggle {
		vm.ToggleSort()
	}
	vm.HandleSearch(q.Search)
	return vm, nil
}

// Export renders the table the user is looking at as xlsx or pdf.
func (s *ContractService) Export(ctx context.Context, input ExportInput) (*ExportResult, error) {
	if !input.Principal.CanExport() {
		return nil, ErrPermissionDenied
	}

	var generator ReportGenerator
	var contentType string
	switch input.Format {
	case ExportXLSX:
		generator = s.excel
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportPDF:
		generator = s.pdf
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, input.Format)
	}

	vm, err := s.OpenTable(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	if st := vm.Status(); st.Failed() {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, st.Message)
	}

	report := vm.Report(s.now())
	content, err := generator.Generate(report)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("format", string(input.Format)).
		Int("page", report.Page).
		Int("rows", len(report.Rows)).
		Str("user_id", input.Principal.UserID.String()).
		Msg("contracts exported")

	return &ExportResult{
		FileName:    buildFileName(report, input.Format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func buildFileName(report model.TableReport, format ExportFormat) string {
	name := fmt.Sprintf("contratos-p%d-%s", report.Page, report.GeneratedAt.Format("20060102-150405"))
	if search := sanitizeFileName(report.Search); search != "" {
		name += "-" + search
	}
	return name + "." + string(format)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
