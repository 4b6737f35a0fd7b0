package resumes

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	DefaultTitle       = "Untitled Resume"
	DefaultTemplate    = "classic"
	DefaultAccentColor = "#3B82F6"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrVersionConflict = errors.New("resume version conflict")
)

// ImageURL is the personal-info photo URL. Non-string JSON values (a browser
// File object serialised as {}) decode to empty.
type ImageURL string

func (u *ImageURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*u = ""
		return nil
	}
	*u = ImageURL(s)
	return nil
}

type PersonalInfo struct {
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Location   string   `json:"location"`
	LinkedIn   string   `json:"linkedin"`
	Website    string   `json:"website"`
	Profession string   `json:"profession"`
	Image      ImageURL `json:"image"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"is_current"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa"`
}

type Project struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Resume is a user's resume document. Version starts at 1 and increases on every replace.
type Resume struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"user_id"`
	Title               string       `json:"title"`
	PersonalInfo        PersonalInfo `json:"personal_info"`
	ProfessionalSummary string       `json:"professional_summary"`
	Experience          []Experience `json:"experience"`
	Education           []Education  `json:"education"`
	Project             []Project    `json:"project"`
	Skills              []string     `json:"skills"`
	Template            string       `json:"template"`
	AccentColor         string       `json:"accent_color"`
	Public              bool         `json:"public"`
	Version             int          `json:"version"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// normalize fills defaults so the document always serialises with arrays, never null.
func (r *Resume) normalize() {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Template == "" {
		r.Template = DefaultTemplate
	}
	if r.AccentColor == "" {
		r.AccentColor = DefaultAccentColor
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Project == nil {
		r.Project = []Project{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
}
