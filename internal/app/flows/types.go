package flows

// Input and output shapes of every flow. Field tags drive both input decoding
// and the JSON schemas sent to the model and used to validate its replies.

type InterviewerInput struct {
	JobDescription string   `json:"job_description" jsonschema:"minLength=1"`
	History        []string `json:"history"`
}

type InterviewerOutput struct {
	Response string `json:"response" jsonschema:"description=The next question or INTERVIEW_COMPLETE followed by the report"`
}

type ResumeAnalysisInput struct {
	ResumeText string `json:"resume_text" jsonschema:"minLength=1"`
}

type ResumeAnalysisOutput struct {
	Summary                  string             `json:"summary"`
	ATSCompatibilityScore    int                `json:"ats_compatibility_score" jsonschema:"minimum=0,maximum=100"`
	Strengths                []string           `json:"strengths"`
	AreasForImprovement      []string           `json:"areas_for_improvement"`
	KeywordAnalysis          KeywordAnalysis    `json:"keyword_analysis"`
	FormattingAndReadability FormattingFeedback `json:"formatting_and_readability"`
	ExtractedData            ExtractedResume    `json:"extracted_data"`
}

type KeywordAnalysis struct {
	ExtractedKeywords []string `json:"extracted_keywords"`
	Suggestions       string   `json:"suggestions"`
}

type FormattingFeedback struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

type ExtractedResume struct {
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	LinkedIn   string       `json:"linkedin,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
}

type Experience struct {
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Date    string   `json:"date"`
	Points  []string `json:"points"`
}

type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Date       string `json:"date"`
}

type JobMatchInput struct {
	ResumeText         string `json:"resume_text" jsonschema:"minLength=1"`
	JobDescriptionText string `json:"job_description_text" jsonschema:"minLength=1"`
}

type JobMatchOutput struct {
	MatchedSkills              []string `json:"matched_skills"`
	MissingSkills              []string `json:"missing_skills"`
	ResumeAlignmentSuggestions string   `json:"resume_alignment_suggestions"`
}

type CoverLetterInput struct {
	ResumeText         string `json:"resume_text" jsonschema:"minLength=1"`
	JobDescriptionText string `json:"job_description_text" jsonschema:"minLength=1"`
}

type CoverLetterOutput struct {
	CoverLetter string `json:"cover_letter" jsonschema:"minLength=1"`
}

type CareerCoachInput struct {
	Query string `json:"query" jsonschema:"minLength=1"`
}

type CareerCoachOutput struct {
	Response string `json:"response"`
}

type NetworkingInput struct {
	Skills         string `json:"skills" jsonschema:"minLength=1"`
	Experience     string `json:"experience" jsonschema:"minLength=1"`
	JobPreferences string `json:"job_preferences" jsonschema:"minLength=1"`
}

type NetworkingOutput struct {
	Recommendations []PersonProfile `json:"recommendations"`
}

type PersonProfile struct {
	Name        string `json:"name"`
	Headline    string `json:"headline"`
	LinkedInURL string `json:"linkedin_url" jsonschema:"format=uri"`
	Reason      string `json:"reason"`
}

type UpskillingInput struct {
	SkillGaps          string `json:"skill_gaps" jsonschema:"minLength=1"`
	CareerGoals        string `json:"career_goals" jsonschema:"minLength=1"`
	PreferredPlatforms string `json:"preferred_platforms,omitempty"`
}

type UpskillingOutput struct {
	CourseRecommendations        []Course `json:"course_recommendations"`
	CertificationRecommendations string   `json:"certification_recommendations"`
	AdditionalResources          string   `json:"additional_resources,omitempty"`
}

type Course struct {
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	URL         string `json:"url" jsonschema:"format=uri"`
}
