package gemini

// GenerateContentRequest mirrors the Gemini generateContent request body.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single turn in a Gemini conversation.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part carries text content.
type Part struct {
	Text string `json:"text"`
}

// GenerateContentResponse is the Gemini blocking response format.
type GenerateContentResponse struct {
	Candidates []ResponseCandidate `json:"candidates"`
}

// ResponseCandidate is one generation returned by the API.
type ResponseCandidate struct {
	Content Content `json:"content"`
}

// errorResponse is the structured error body Gemini returns on non-2xx.
type errorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
