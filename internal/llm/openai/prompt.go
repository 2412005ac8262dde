package openai

// schemaBlock is the JSON shape the model must return, spelled out inline so
// the model never guesses field names or enum spellings.
const schemaBlock = `{
  "profile": {
    "name": "string",
    "surname": "string",
    "email": "string (optional)",
    "headline": "string (professional title/role, optional)",
    "professionalSummary": "string (optional)",
    "linkedIn": "string (LinkedIn URL, optional)",
    "website": "string (personal website, optional)",
    "country": "string (optional)",
    "city": "string (optional)",
    "relocation": boolean (optional),
    "remote": boolean (optional)
  },
  "workExperiences": [
    {
      "jobTitle": "string",
      "employmentType": "FULL_TIME | PART_TIME | INTERNSHIP | CONTRACT (optional)",
      "locationType": "ONSITE | REMOTE | HYBRID (optional)",
      "company": "string",
      "startMonth": number (1-12, optional),
      "startYear": number (optional),
      "endMonth": number or null (1-12, optional),
      "endYear": number or null (optional),
      "current": boolean (optional),
      "description": "string (optional)"
    }
  ],
  "educations": [
    {
      "school": "string",
      "degree": "HIGH_SCHOOL | ASSOCIATE | BACHELOR | MASTER | DOCTORATE (optional)",
      "major": "string (field of study, optional)",
      "startYear": number (optional),
      "endYear": number (optional),
      "current": boolean (optional),
      "description": "string (optional)"
    }
  ],
  "skills": ["string", ...],
  "licenses": [
    {
      "name": "string",
      "issuer": "string (optional)",
      "issueYear": number (optional),
      "description": "string (optional)"
    }
  ],
  "languages": [
    {
      "language": "string",
      "level": "BEGINNER | INTERMEDIATE | ADVANCED | NATIVE (optional)"
    }
  ],
  "achievements": [
    {
      "title": "string",
      "organization": "string (optional)",
      "achieveDate": "string (YYYY-MM format, optional)",
      "description": "string (optional)"
    }
  ],
  "publications": [
    {
      "title": "string",
      "publisher": "string (optional)",
      "publicationDate": "string (ISO 8601 date, optional)",
      "publicationUrl": "string (optional)",
      "description": "string (optional)"
    }
  ],
  "honors": [
    {
      "title": "string",
      "issuer": "string (optional)",
      "issueMonth": number (1-12, optional),
      "issueYear": number (optional),
      "description": "string (optional)"
    }
  ]
}`

const textSystemMessage = "You are a resume data extraction expert. Extract structured data and return only valid JSON matching the exact schema provided."

const visionSystemMessage = "You are a resume data extraction expert. Extract structured data from images and return only valid JSON matching the exact schema provided."

func textPrompt(resumeText string) string {
	return "Extract structured data from this resume text. Return ONLY valid JSON with no markdown formatting or code blocks.\n\n" +
		"Required JSON structure (follow EXACTLY):\n" + schemaBlock + "\n\n" +
		"Resume text:\n" + resumeText + "\n\n" +
		"Return only the JSON object, no other text."
}

func visionPrompt() string {
	return "Extract structured data from these resume page images. Return ONLY valid JSON with no markdown formatting or code blocks.\n\n" +
		"Required JSON structure (follow EXACTLY):\n" + schemaBlock + "\n\n" +
		"Return only the JSON object, no other text."
}
