package rules

// MaxPromptsPerUser caps how many answered prompts a profile may carry.
const MaxPromptsPerUser = 3

// MaxPromptAnswerRunes caps the length of a prompt answer.
const MaxPromptAnswerRunes = 255

// promptQuestions is the fixed catalog of prompt questions a user may
// answer. Answers to anything outside this set are rejected.
var promptQuestions = map[string]struct{}{
	"A life goal of mine":                       {},
	"A verse that carries me through hard days": {},
	"My simple pleasures":                       {},
	"My favorite worship song is":               {},
	"The way to win me over is":                 {},
	"I'm looking for":                           {},
	"Faith to me means":                         {},
	"My ideal Sunday looks like":                {},
	"Two truths and a lie":                      {},
	"I get way too excited about":               {},
}

// IsPromptQuestion reports whether q belongs to the question catalog.
func IsPromptQuestion(q string) bool {
	_, ok := promptQuestions[q]
	return ok
}

// PromptQuestions returns the catalog in no particular order.
func PromptQuestions() []string {
	out := make([]string, 0, len(promptQuestions))
	for q := range promptQuestions {
		out = append(out, q)
	}
	return out
}
