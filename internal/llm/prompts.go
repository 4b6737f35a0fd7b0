package llm

import "strings"

const (
	ProSummarySystemPrompt = "You are an expert in resume writing. Your task is to enhance the professional summary of a resume. The summary should be 1-2 sentences also highlighting key skills, experience, and career objectives. Make it compelling and ATS-friendly. only return text no options or anything else."
	JobDescSystemPrompt    = "You are an expert in resume writing. Your task is to enhance the job description of a resume. The job description should be only in 1-2 sentence also highlighting key responsibilities and achievements. Use action verbs and quantifiable results where possible. Make it ATS-friendly. only return text no options or anything else."

	reviewPromptPrefix = "Review the following resume and provide constructive feedback on its strengths, weaknesses, and areas for improvement. Resume Content:\n\n"
)

// Output budgets per route.
const (
	TitlesMaxTokens = 700
	ReviewMaxTokens = 1000
)

// ReviewPrompt builds the resume review prompt around extracted text.
func ReviewPrompt(resumeText string) string {
	return reviewPromptPrefix + strings.TrimSpace(resumeText)
}
