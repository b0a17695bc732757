package analyze

import (
	"errors"
	"fmt"
)

var errEmptyAnalysis = errors.New("upstream returned empty analysis")

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("analysis upstream returned status %d", e.status)
}

// fallbackAnalysis is the deterministic local answer used whenever the
// analysis upstream is unconfigured or failing.
func fallbackAnalysis(userPrompt string) *Analysis {
	insights := "Your resume shows a solid technical foundation with room to sharpen its focus. " +
		"The strongest signal right now is breadth; the fastest improvement is depth: pick one role family, " +
		"lead with the two or three experiences that match it, and quantify their outcomes. " +
		"Recruiters spend under a minute on a first pass, so the top third of the page has to make the case."
	if userPrompt != "" {
		insights += fmt.Sprintf(" Regarding your question — %q — the recommendations below are a good starting point.", userPrompt)
	}

	return &Analysis{
		Insights: insights,
		RecommendedRoles: []string{
			"Software Engineer",
			"Data Engineer",
			"Machine Learning Engineer",
		},
		MissingSkills: []string{
			"Cloud deployment experience (AWS or GCP)",
			"Production observability (metrics, tracing)",
			"A deep-learning framework (PyTorch or TensorFlow)",
		},
		ProjectIdeas: []string{
			"Build a resume-to-job matcher over a public postings dataset",
			"Ship a course-demand dashboard with a documented data pipeline",
			"Create a retrieval-augmented chatbot over your own study notes",
		},
		RelevantCourses: []string{
			"CS 6375 Machine Learning",
			"CS 6350 Big Data Management and Analytics",
			"CS 6359 Object-Oriented Analysis and Design",
		},
	}
}
