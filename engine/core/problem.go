package core

import "net/http"

// Problem captures the information returned in an RFC 7807 error response.
type Problem struct {
	Status int
	Title  string
	Detail string
	Code   string
}

// NormalizeProblem ensures the provided problem includes canonical defaults.
func NormalizeProblem(problem *Problem) *Problem {
	if problem == nil {
		problem = &Problem{}
	}
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if problem.Title == "" {
		problem.Title = http.StatusText(problem.Status)
	}
	return problem
}

// BuildProblemBody assembles the serialized representation of the problem.
func BuildProblemBody(problem *Problem) map[string]any {
	body := map[string]any{
		"status": problem.Status,
		"error":  problem.Title,
	}
	if problem.Detail != "" {
		body["details"] = problem.Detail
	}
	if problem.Code != "" {
		body["code"] = problem.Code
	}
	return body
}
