package extraction

// Record is the canonical structured-extraction result. Field names and enum
// spellings are fixed; the normalizer coerces model output into this shape
// and the schema validator is the final gate.
type Record struct {
	Profile         Profile          `json:"profile"`
	WorkExperiences []WorkExperience `json:"workExperiences"`
	Educations      []Education      `json:"educations"`
	Skills          []string         `json:"skills"`
	Licenses        []License        `json:"licenses"`
	Languages       []Language       `json:"languages"`
	Achievements    []Achievement    `json:"achievements"`
	Publications    []Publication    `json:"publications"`
	Honors          []Honor          `json:"honors"`
}

type Profile struct {
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	Email               string `json:"email,omitempty"`
	Headline            string `json:"headline,omitempty"`
	ProfessionalSummary string `json:"professionalSummary,omitempty"`
	LinkedIn            string `json:"linkedIn,omitempty"`
	Website             string `json:"website,omitempty"`
	Country             string `json:"country,omitempty"`
	City                string `json:"city,omitempty"`
	Relocation          *bool  `json:"relocation,omitempty"`
	Remote              *bool  `json:"remote,omitempty"`
}

type WorkExperience struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	EmploymentType string `json:"employmentType,omitempty"`
	LocationType   string `json:"locationType,omitempty"`
	StartMonth     *int   `json:"startMonth,omitempty"`
	StartYear      *int   `json:"startYear,omitempty"`
	EndMonth       *int   `json:"endMonth,omitempty"`
	EndYear        *int   `json:"endYear,omitempty"`
	Current        *bool  `json:"current,omitempty"`
	Description    string `json:"description,omitempty"`
}

type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree,omitempty"`
	Major       string `json:"major,omitempty"`
	StartYear   *int   `json:"startYear,omitempty"`
	EndYear     *int   `json:"endYear,omitempty"`
	Current     *bool  `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

type License struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer,omitempty"`
	IssueYear   *int   `json:"issueYear,omitempty"`
	Description string `json:"description,omitempty"`
}

type Language struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

type Achievement struct {
	Title        string `json:"title"`
	Organization string `json:"organization,omitempty"`
	AchieveDate  string `json:"achieveDate,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Publication struct {
	Title           string `json:"title"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationDate string `json:"publicationDate,omitempty"`
	PublicationURL  string `json:"publicationUrl,omitempty"`
	Description     string `json:"description,omitempty"`
}

type Honor struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer,omitempty"`
	IssueMonth  *int   `json:"issueMonth,omitempty"`
	IssueYear   *int   `json:"issueYear,omitempty"`
	Description string `json:"description,omitempty"`
}

// Closed enum sets. Anything outside them is treated as absent, never an
// error.
var (
	employmentTypes = map[string]struct{}{
		"FULL_TIME":  {},
		"PART_TIME":  {},
		"INTERNSHIP": {},
		"CONTRACT":   {},
	}
	locationTypes = map[string]struct{}{
		"ONSITE": {},
		"REMOTE": {},
		"HYBRID": {},
	}
	degreeTypes = map[string]struct{}{
		"HIGH_SCHOOL": {},
		"ASSOCIATE":   {},
		"BACHELOR":    {},
		"MASTER":      {},
		"DOCTORATE":   {},
	}
	languageLevels = map[string]struct{}{
		"BEGINNER":     {},
		"INTERMEDIATE": {},
		"ADVANCED":     {},
		"NATIVE":       {},
	}
)
