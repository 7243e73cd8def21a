package domain

type InstitutionType string

const (
	TypeHospital   InstitutionType = "hospital"
	TypeClinic     InstitutionType = "clinic"
	TypePolyclinic InstitutionType = "polyclinic"
	TypeCenter     InstitutionType = "center"
	TypePharmacy   InstitutionType = "pharmacy"
)

func (t InstitutionType) Valid() bool {
	switch t {
	case TypeHospital, TypeClinic, TypePolyclinic, TypeCenter, TypePharmacy:
		return true
	}
	return false
}

// Weekdays lists schedule keys in week order; keys match time.Weekday names in lower case.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DaySchedule holds zero-padded 24h "HH:MM" bounds.
type DaySchedule struct {
	Open      string `json:"open" yaml:"open"`
	Close     string `json:"close" yaml:"close"`
	IsWorking bool   `json:"isWorking" yaml:"isWorking"`
}

// Schedule maps a weekday name to that day's hours.
type Schedule map[string]DaySchedule

func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Location struct {
	District    string      `json:"district" yaml:"district"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

type Doctor struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name" validate:"required"`
	Specialization string   `json:"specialization" yaml:"specialization"`
	Experience     int      `json:"experience" yaml:"experience" validate:"gte=0"`
	Category       string   `json:"category" yaml:"category"`
	Photo          *string  `json:"photo,omitempty" yaml:"photo,omitempty"`
	Schedule       Schedule `json:"workingHours" yaml:"workingHours"`
}

type Institution struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name" validate:"required"`
	Address      string          `json:"address" yaml:"address"`
	Phone        string          `json:"phone" yaml:"phone"`
	Email        string          `json:"email" yaml:"email" validate:"omitempty,email"`
	Website      *string         `json:"website,omitempty" yaml:"website,omitempty"`
	Type         InstitutionType `json:"type" yaml:"type"`
	Paid         bool            `json:"isPaid" yaml:"isPaid"`
	Schedule     Schedule        `json:"workingHours" yaml:"workingHours"`
	Services     []string        `json:"services" yaml:"services"`
	Doctors      []Doctor        `json:"doctors" yaml:"doctors" validate:"dive"`
	Photos       []string        `json:"photos" yaml:"photos"`
	Description  string          `json:"description" yaml:"description"`
	Rating       float64         `json:"rating" yaml:"rating"`
	ReviewCount  int             `json:"reviewCount" yaml:"reviewCount" validate:"gte=0"`
	Location     Location        `json:"location" yaml:"location"`
	Achievements []string        `json:"achievements" yaml:"achievements"`
	YearsOfWork  int             `json:"yearsOfWork" yaml:"yearsOfWork" validate:"gte=0"`
}

// Clone returns a copy that shares no slices or maps with i.
func (i Institution) Clone() Institution {
	out := i
	out.Schedule = i.Schedule.Clone()
	out.Services = append([]string(nil), i.Services...)
	out.Photos = append([]string(nil), i.Photos...)
	out.Achievements = append([]string(nil), i.Achievements...)
	if i.Doctors != nil {
		out.Doctors = make([]Doctor, len(i.Doctors))
		for k, d := range i.Doctors {
			d.Schedule = d.Schedule.Clone()
			out.Doctors[k] = d
		}
	}
	return out
}

// InstitutionPatch carries the fields of a partial update; nil means "leave as is".
type InstitutionPatch struct {
	Name         *string          `json:"name,omitempty"`
	Address      *string          `json:"address,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Website      *string          `json:"website,omitempty"`
	Type         *InstitutionType `json:"type,omitempty"`
	Paid         *bool            `json:"isPaid,omitempty"`
	Schedule     Schedule         `json:"workingHours,omitempty"`
	Services     []string         `json:"services,omitempty"`
	Doctors      []Doctor         `json:"doctors,omitempty"`
	Photos       []string         `json:"photos,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Rating       *float64         `json:"rating,omitempty"`
	ReviewCount  *int             `json:"reviewCount,omitempty"`
	Location     *Location        `json:"location,omitempty"`
	Achievements []string         `json:"achievements,omitempty"`
	YearsOfWork  *int             `json:"yearsOfWork,omitempty"`
}

// Apply merges the non-nil fields of p into i.
func (p InstitutionPatch) Apply(i *Institution) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Address != nil {
		i.Address = *p.Address
	}
	if p.Phone != nil {
		i.Phone = *p.Phone
	}
	if p.Email != nil {
		i.Email = *p.Email
	}
	if p.Website != nil {
		w := *p.Website
		i.Website = &w
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Paid != nil {
		i.Paid = *p.Paid
	}
	if p.Schedule != nil {
		i.Schedule = p.Schedule.Clone()
	}
	if p.Services != nil {
		i.Services = append([]string(nil), p.Services...)
	}
	if p.Doctors != nil {
		i.Doctors = append([]Doctor(nil), p.Doctors...)
	}
	if p.Photos != nil {
		i.Photos = append([]string(nil), p.Photos...)
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Rating != nil {
		i.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		i.ReviewCount = *p.ReviewCount
	}
	if p.Location != nil {
		i.Location = *p.Location
	}
	if p.Achievements != nil {
		i.Achievements = append([]string(nil), p.Achievements...)
	}
	if p.YearsOfWork != nil {
		i.YearsOfWork = *p.YearsOfWork
	}
}
