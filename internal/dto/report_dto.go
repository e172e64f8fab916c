package dto

// ReportQuery is bound from ?from=YYYY-MM-DD&to=YYYY-MM-DD. Both bounds are
// optional and inclusive.
type ReportQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
}

// EmailReportRequest queues a rendered sales report for delivery.
type EmailReportRequest struct {
	To     string `json:"to"     validate:"required,email"`
	Format string `json:"format" validate:"required,oneof=pdf excel"`
	From   string `json:"from"   validate:"omitempty,datetime=2006-01-02"`
	Until  string `json:"until"  validate:"omitempty,datetime=2006-01-02"`
}
