package extraction

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize coerces raw model output into the canonical record shape. It
// never fails: wrong types, junk enum spellings, and out-of-range numbers
// degrade to absent fields, and required strings degrade to empty strings.
// It is idempotent, so normalizing an already-normalized record is a no-op.
func Normalize(raw json.RawMessage) Record {
	var root map[string]any
	_ = json.Unmarshal(raw, &root)
	return normalizeRoot(root)
}

func normalizeRoot(root map[string]any) Record {
	rec := Record{
		WorkExperiences: []WorkExperience{},
		Educations:      []Education{},
		Skills:          []string{},
		Licenses:        []License{},
		Languages:       []Language{},
		Achievements:    []Achievement{},
		Publications:    []Publication{},
		Honors:          []Honor{},
	}

	rec.Profile = normalizeProfile(asObject(root["profile"]))

	for _, el := range asArray(root["workExperiences"]) {
		obj := asObject(el)
		rec.WorkExperiences = append(rec.WorkExperiences, WorkExperience{
			JobTitle:       optString(obj["jobTitle"]),
			Company:        optString(obj["company"]),
			EmploymentType: optEnum(obj["employmentType"], employmentTypes),
			LocationType:   optEnum(obj["locationType"], locationTypes),
			StartMonth:     optMonth(obj["startMonth"]),
			StartYear:      optInt(obj["startYear"]),
			EndMonth:       optMonth(obj["endMonth"]),
			EndYear:        optInt(obj["endYear"]),
			Current:        optBool(obj["current"]),
			Description:    optString(obj["description"]),
		})
	}

	for _, el := range asArray(root["educations"]) {
		obj := asObject(el)
		rec.Educations = append(rec.Educations, Education{
			School:      optString(obj["school"]),
			Degree:      optEnum(obj["degree"], degreeTypes),
			Major:       optString(obj["major"]),
			StartYear:   optInt(obj["startYear"]),
			EndYear:     optInt(obj["endYear"]),
			Current:     optBool(obj["current"]),
			Description: optString(obj["description"]),
		})
	}

	for _, el := range asArray(root["skills"]) {
		if s := optString(el); s != "" {
			rec.Skills = append(rec.Skills, s)
		}
	}

	for _, el := range asArray(root["licenses"]) {
		obj := asObject(el)
		rec.Licenses = append(rec.Licenses, License{
			Name:        optString(obj["name"]),
			Issuer:      optString(obj["issuer"]),
			IssueYear:   optInt(obj["issueYear"]),
			Description: optString(obj["description"]),
		})
	}

	for _, el := range asArray(root["languages"]) {
		obj := asObject(el)
		rec.Languages = append(rec.Languages, Language{
			Language: optString(obj["language"]),
			Level:    optEnum(obj["level"], languageLevels),
		})
	}

	for _, el := range asArray(root["achievements"]) {
		obj := asObject(el)
		rec.Achievements = append(rec.Achievements, Achievement{
			Title:        optString(obj["title"]),
			Organization: optString(obj["organization"]),
			AchieveDate:  optString(obj["achieveDate"]),
			Description:  optString(obj["description"]),
		})
	}

	for _, el := range asArray(root["publications"]) {
		obj := asObject(el)
		rec.Publications = append(rec.Publications, Publication{
			Title:           optString(obj["title"]),
			Publisher:       optString(obj["publisher"]),
			PublicationDate: optString(obj["publicationDate"]),
			PublicationURL:  optString(obj["publicationUrl"]),
			Description:     optString(obj["description"]),
		})
	}

	for _, el := range asArray(root["honors"]) {
		obj := asObject(el)
		rec.Honors = append(rec.Honors, Honor{
			Title:       optString(obj["title"]),
			Issuer:      optString(obj["issuer"]),
			IssueMonth:  optMonth(obj["issueMonth"]),
			IssueYear:   optInt(obj["issueYear"]),
			Description: optString(obj["description"]),
		})
	}

	return rec
}

func normalizeProfile(obj map[string]any) Profile {
	return Profile{
		Name:                optString(obj["name"]),
		Surname:             optString(obj["surname"]),
		Email:               optEmail(obj["email"]),
		Headline:            optString(obj["headline"]),
		ProfessionalSummary: optString(obj["professionalSummary"]),
		LinkedIn:            optString(obj["linkedIn"]),
		Website:             optString(obj["website"]),
		Country:             optString(obj["country"]),
		City:                optString(obj["city"]),
		Relocation:          optBool(obj["relocation"]),
		Remote:              optBool(obj["remote"]),
	}
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// optString trims string input; any other type degrades to empty.
func optString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// optEmail keeps only values that look like an address; a garbled email is
// dropped rather than failing the job.
func optEmail(v any) string {
	s := optString(v)
	if s == "" || !emailPattern.MatchString(s) {
		return ""
	}
	return s
}

// optEnum folds case and separators (upper-case, spaces/hyphens to
// underscore) before checking set membership. Non-members become absent.
func optEnum(v any, set map[string]struct{}) string {
	s := optString(v)
	if s == "" {
		return ""
	}
	folded := strings.ToUpper(s)
	folded = strings.ReplaceAll(folded, " ", "_")
	folded = strings.ReplaceAll(folded, "-", "_")
	if _, ok := set[folded]; !ok {
		return ""
	}
	return folded
}

// optBool accepts native booleans and the usual textual synonyms.
func optBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		b := t
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			b := true
			return &b
		case "false", "no", "0":
			b := false
			return &b
		}
	case float64:
		if t == 1 {
			b := true
			return &b
		}
		if t == 0 {
			b := false
			return &b
		}
	}
	return nil
}

// optInt parses numbers and numeric strings; anything non-finite or
// non-numeric becomes absent.
func optInt(v any) *int {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		n := int(t)
		return &n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &parsed
	case json.Number:
		parsed, err := t.Int64()
		if err != nil {
			return nil
		}
		n := int(parsed)
		return &n
	}
	return nil
}

// optMonth keeps months only inside [1,12]; out-of-range values are dropped,
// never clamped.
func optMonth(v any) *int {
	n := optInt(v)
	if n == nil || *n < 1 || *n > 12 {
		return nil
	}
	return n
}
