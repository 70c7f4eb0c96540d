package cleaning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storecli/internal/config"
	apperrors "storecli/internal/errors"
	"storecli/pkg/contracts/domain"
)

// candidate is a raw row with every kept field trimmed, before parsing
type candidate struct {
	OrderID     string `field:"order_id" validate:"required"`
	CustomerID  string `field:"customer_id" validate:"required"`
	OrderDate   string `field:"order_date" validate:"required,calendar_date"`
	ShipDate    string `field:"ship_date" validate:"required,calendar_date"`
	Segment     string `field:"segment" validate:"required"`
	Region      string `field:"region" validate:"required"`
	State       string `field:"state" validate:"required"`
	City        string `field:"city" validate:"required"`
	Category    string `field:"category" validate:"required"`
	SubCategory string `field:"sub_category" validate:"required"`
	ProductName string `field:"product_name" validate:"required"`
	Sales       string `field:"sales" validate:"required,sales_amount"`
	ShipMode    string `field:"ship_mode" validate:"required"`
}

// Result is the outcome of a cleaning pass
type Result struct {
	Lines      []domain.OrderLine
	Rejections RejectionReport
}

// Cleaner validates raw records into order lines
type Cleaner struct {
	dateLayout string
	maxSamples int
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewCleaner creates a cleaner. Dates are parsed with dateLayout only; at most
// maxSamples rejected rows are kept as samples in the report.
func NewCleaner(dateLayout string, maxSamples int, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if dateLayout == "" {
		dateLayout = config.DefaultDateLayout
	}
	if maxSamples < 0 {
		maxSamples = 0
	}

	c := &Cleaner{
		dateLayout: dateLayout,
		maxSamples: maxSamples,
		logger:     logger.With(slog.String("component", "cleaner")),
	}

	v := validator.New()
	v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := c.parseDate(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("sales_amount", func(fl validator.FieldLevel) bool {
		_, err := parseSales(fl.Field().String())
		return err == nil
	})
	// Report canonical field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})
	c.validate = v

	return c
}

// Clean validates every record. Malformed records are excluded and counted;
// the accepted lines keep their input order.
func (c *Cleaner) Clean(ctx context.Context, records []domain.RawRecord) Result {
	report := newRejectionReport()
	report.Total = len(records)
	lines := make([]domain.OrderLine, 0, len(records))

	for _, rec := range records {
		line, rej := c.cleanRecord(rec)
		if rej != nil {
			report.reject(*rej, c.maxSamples)
			err := apperrors.NewMalformedRecordError(rej.Line, string(rej.Reason), rej.Detail).
				WithContext("field", rej.Field)
			c.logger.DebugContext(ctx, "row rejected",
				slog.Int("line", rej.Line),
				slog.String("reason", string(rej.Reason)),
				slog.String("error", err.Error()))
			continue
		}
		lines = append(lines, line)
	}
	report.Accepted = len(lines)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("total", report.Total),
		slog.Int("accepted", report.Accepted),
		slog.Int("rejected", report.Rejected))

	return Result{Lines: lines, Rejections: report}
}

func (c *Cleaner) cleanRecord(rec domain.RawRecord) (domain.OrderLine, *Rejection) {
	if rec.Malformed != "" {
		return domain.OrderLine{}, &Rejection{Line: rec.Line, Reason: ReasonMalformedRow, Detail: rec.Malformed}
	}
	cand := project(rec)

	if err := c.validate.Struct(cand); err != nil {
		return domain.OrderLine{}, c.classify(rec.Line, cand, err)
	}

	// Both parse calls succeeded during validation
	orderDate, _ := c.parseDate(cand.OrderDate)
	shipDate, _ := c.parseDate(cand.ShipDate)
	sales, _ := parseSales(cand.Sales)

	return domain.OrderLine{
		OrderID:     cand.OrderID,
		CustomerID:  cand.CustomerID,
		OrderDate:   orderDate,
		ShipDate:    shipDate,
		Segment:     cand.Segment,
		Region:      cand.Region,
		State:       cand.State,
		City:        cand.City,
		Category:    cand.Category,
		SubCategory: cand.SubCategory,
		ProductName: cand.ProductName,
		Sales:       sales,
		ShipMode:    cand.ShipMode,
	}, nil
}

// project keeps the required fields only, trimmed. Dropped fields such as
// customer_name or postal_code never reach the candidate.
func project(rec domain.RawRecord) candidate {
	get := func(field string) string {
		v, _ := rec.Get(field)
		return strings.TrimSpace(v)
	}
	return candidate{
		OrderID:     get(domain.FieldOrderID),
		CustomerID:  get(domain.FieldCustomerID),
		OrderDate:   get(domain.FieldOrderDate),
		ShipDate:    get(domain.FieldShipDate),
		Segment:     get(domain.FieldSegment),
		Region:      get(domain.FieldRegion),
		State:       get(domain.FieldState),
		City:        get(domain.FieldCity),
		Category:    get(domain.FieldCategory),
		SubCategory: get(domain.FieldSubCategory),
		ProductName: get(domain.FieldProductName),
		Sales:       get(domain.FieldSales),
		ShipMode:    get(domain.FieldShipMode),
	}
}

// classify picks the highest precedence reason among the failed fields
func (c *Cleaner) classify(line int, cand candidate, err error) *Rejection {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Rejection{Line: line, Reason: ReasonMissingField, Detail: err.Error()}
	}

	var best *Rejection
	var missing []string
	for _, fe := range verrs {
		rej := Rejection{Line: line, Field: fe.Field()}
		switch fe.Tag() {
		case "required":
			rej.Reason = ReasonMissingField
			missing = append(missing, fe.Field())
		case "calendar_date":
			rej.Reason = ReasonBadDate
			rej.Detail = fmt.Sprintf("%s %q does not match layout %q", fe.Field(), fe.Value(), c.dateLayout)
		case "sales_amount":
			rej.Reason = ReasonBadSales
			rej.Detail = fmt.Sprintf("sales %q is negative or not a number", cand.Sales)
		default:
			rej.Reason = ReasonMissingField
			rej.Detail = fe.Error()
		}
		if best == nil || rej.Reason.rank() < best.Reason.rank() {
			r := rej
			best = &r
		}
	}

	if best.Reason == ReasonMissingField && len(missing) > 0 {
		best.Field = missing[0]
		best.Detail = "missing " + strings.Join(missing, ", ")
	}
	return best
}

func (c *Cleaner) parseDate(s string) (time.Time, error) {
	t, err := time.Parse(c.dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseSales(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative sales %s", s)
	}
	return d, nil
}
