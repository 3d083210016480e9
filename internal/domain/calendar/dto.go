package calendar

type CreateHolidayRequest struct {
	Date         string  `json:"date"`
	Name         string  `json:"name"`
	HolidayType  string  `json:"holiday_type"`
	IsRecurring  bool    `json:"is_recurring"`
	IsPaid       bool    `json:"is_paid"`
	DepartmentID *string `json:"department_id,omitempty"`
}

type RamadanPeriodRequest struct {
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
