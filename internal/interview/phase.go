package interview

type Phase int

const (
	Loading Phase = iota
	AwaitingFirstQuestion
	AwaitingAnswer
	Submitting
	AwaitingNextQuestion
	Completed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case AwaitingFirstQuestion:
		return "awaiting_first_question"
	case AwaitingAnswer:
		return "awaiting_answer"
	case Submitting:
		return "submitting"
	case AwaitingNextQuestion:
		return "awaiting_next_question"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}
