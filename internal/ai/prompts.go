package ai

import "fmt"

const (
	summarySystemPrompt = "You are an expert in resume writing. Your task is to enhance the professional summary of a resume. " +
		"The summary should be 1-2 sentences highlighting key skills, experience, and career objectives. " +
		"Make it compelling and ATS-friendly, and return only the improved text."

	jobDescriptionSystemPrompt = "You are an expert in resume writing. Your task is to enhance the job description of a resume. " +
		"The job description should be rewritten into 1–2 concise sentences that highlight key responsibilities and achievements. " +
		"Use strong action verbs and quantifiable results where possible. Make it ATS-friendly and return only the improved text."

	extractionSystemPrompt = "You are an expert AI agent that extracts structured data from resumes."
)

const extractionShape = `{
  "professional_summary": "",
  "skills": [""],
  "personal_info": {
    "image": "",
    "full_name": "",
    "profession": "",
    "email": "",
    "phone": "",
    "location": "",
    "linkedin": "",
    "website": ""
  },
  "experience": [
    {
      "company": "",
      "position": "",
      "start_date": "",
      "end_date": "",
      "description": "",
      "is_current": false
    }
  ],
  "project": [
    {
      "name": "",
      "type": "",
      "description": ""
    }
  ],
  "education": [
    {
      "institution": "",
      "degree": "",
      "field": "",
      "graduation_date": "",
      "gpa": ""
    }
  ]
}`

func extractionUserPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract all relevant data from this resume: %s

Provide data in the following JSON format with no additional text before or after.
Use empty strings, false, or empty arrays for anything the resume does not contain:

%s
`, resumeText, extractionShape)
}
