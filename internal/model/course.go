// Package model defines the course catalog data types.
package model

// Course is one row of the published course catalog. Courses are built once
// by the ingestion side and never mutated afterwards.
//
// JSON names match the scraped catalog dataset so existing dumps load as-is.
type Course struct {
	Seq             string   `json:"stt,omitempty"`
	Code            string   `json:"ma_mon_hoc"`
	Name            string   `json:"ten_mon_hoc"`
	NameEN          string   `json:"ten_mon_hoc_en"`
	Offered         bool     `json:"con_mo_lop"`
	Department      string   `json:"don_vi_quan_ly"`
	Category        string   `json:"loai_mon_hoc"`
	LegacyCode      string   `json:"ma_cu"`
	Equivalents     []string `json:"mon_hoc_tuong_duong"`
	Corequisites    []string `json:"mon_hoc_tien_quyet"`
	Prerequisites   []string `json:"mon_hoc_truoc"`
	TheoryCredits   int      `json:"so_tin_chi_ly_thuyet"`
	PracticeCredits int      `json:"so_tin_chi_thuc_hanh"`
	TotalCredits    int      `json:"so_tin_chi"`
}

// HasPrerequisite reports whether code is listed among c's prerequisites.
func (c Course) HasPrerequisite(code string) bool {
	for _, p := range c.Prerequisites {
		if p == code {
			return true
		}
	}
	return false
}

// NewCourse fills TotalCredits from the theory and practice credits.
func NewCourse(c Course) Course {
	c.TotalCredits = c.TheoryCredits + c.PracticeCredits
	return c
}

// Clone returns a copy of c that shares no slices with it.
func (c Course) Clone() Course {
	c.Equivalents = cloneCodes(c.Equivalents)
	c.Corequisites = cloneCodes(c.Corequisites)
	c.Prerequisites = cloneCodes(c.Prerequisites)
	return c
}

func cloneCodes(codes []string) []string {
	if codes == nil {
		return nil
	}
	return append([]string{}, codes...)
}
