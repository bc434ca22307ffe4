package dto

type CreatePromptRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type PromptsResponse struct {
	Prompts []PromptResponse `json:"prompts"`
}

type PromptQuestionsResponse struct {
	Questions []string `json:"questions"`
}
