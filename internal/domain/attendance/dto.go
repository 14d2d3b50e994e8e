package attendance

import (
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest carries a clock-in attempt. Latitude and Longitude are kept raw
// because mobile clients send them as numbers, numeric strings, or null; Validate
// normalizes them into Lat/Lon.
type CheckInRequest struct {
	EmployeeID string `json:"-"`
	Latitude   any    `json:"latitude"`
	Longitude  any    `json:"longitude"`

	// set by Validate
	Lat float64 `json:"-"`
	Lon float64 `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	lat, latOK := geo.ParseCoordinate(r.Latitude)
	if !latOK {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be a number",
		})
	}

	lon, lonOK := geo.ParseCoordinate(r.Longitude)
	if !lonOK {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be a number",
		})
	}

	if latOK && lonOK {
		lat, lon, _ = geo.ValidateAndCorrect(lat, lon)

		if lat < -90 || lat > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if lon < -180 || lon > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}

		r.Lat = lat
		r.Lon = lon
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"-"`
	Latitude   any    `json:"latitude"`
	Longitude  any    `json:"longitude"`

	// set by Validate
	Lat float64 `json:"-"`
	Lon float64 `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	lat, latOK := geo.ParseCoordinate(r.Latitude)
	if !latOK {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be a number",
		})
	}

	lon, lonOK := geo.ParseCoordinate(r.Longitude)
	if !lonOK {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be a number",
		})
	}

	if latOK && lonOK {
		lat, lon, _ = geo.ValidateAndCorrect(lat, lon)

		if lat < -90 || lat > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if lon < -180 || lon > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}

		r.Lat = lat
		r.Lon = lon
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReportLocationRequest struct {
	EmployeeID string `json:"-"`
	Latitude   any    `json:"latitude"`
	Longitude  any    `json:"longitude"`

	// set by Validate
	Lat float64 `json:"-"`
	Lon float64 `json:"-"`
}

func (r *ReportLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	lat, latOK := geo.ParseCoordinate(r.Latitude)
	if !latOK {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be a number",
		})
	}

	lon, lonOK := geo.ParseCoordinate(r.Longitude)
	if !lonOK {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be a number",
		})
	}

	if latOK && lonOK {
		lat, lon, _ = geo.ValidateAndCorrect(lat, lon)

		if lat < -90 || lat > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if lon < -180 || lon > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}

		r.Lat = lat
		r.Lon = lon
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	SiteID            string   `json:"site_id"`
	SiteName          *string  `json:"site_name,omitempty"`
	ClockInTime       string   `json:"clock_in_time"`
	ClockOutTime      *string  `json:"clock_out_time,omitempty"`
	ClockInLatitude   float64  `json:"clock_in_latitude"`
	ClockInLongitude  float64  `json:"clock_in_longitude"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	WorkingHours      *float64 `json:"working_hours,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type ReportLocationResponse struct {
	IsOnSite       bool    `json:"is_on_site"`
	DistanceMeters float64 `json:"distance_meters"`
	RecordedAt     string  `json:"recorded_at"`
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Date validation
	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
