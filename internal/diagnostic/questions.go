package diagnostic

// UnsureOptionIndex is the fixed position of the "I'm not sure" option.
// It is always presented last, after the four real options.
const UnsureOptionIndex = 4

// QuestionCount is the size of the calibration batch. The scorer expects
// one answer per question.
const QuestionCount = 5

// unsureOption is appended as the final option on every presentation.
const unsureOption = "I'm not sure"

// Question is a static calibration question. Options holds the four real
// options in canonical order; the correct one is at CorrectOption.
// The "I'm not sure" option is not stored here; presentation appends it.
type Question struct {
	Index            int
	Text             string
	Options          [4]string
	CorrectOption    int
	DifficultyWeight int
}

// questions is the fixed calibration set, ordered easy to hard.
// Weights: two beginner (1), two intermediate (2), one advanced (3).
var questions = [QuestionCount]Question{
	{
		Index: 0,
		Text:  "What is a Large Language Model (LLM)?",
		Options: [4]string{
			"A tool that predicts the next piece of text based on patterns it has learned",
			"A physical robot that can move and talk",
			"A spreadsheet full of formulas",
			"A type of computer hardware component",
		},
		CorrectOption:    0,
		DifficultyWeight: 1,
	},
	{
		Index: 1,
		Text:  "What does 'tokenization' mean in the context of LLMs?",
		Options: [4]string{
			"Breaking text into smaller pieces (words or subwords) that the model can process",
			"Creating security tokens for API access",
			"Converting text to binary code",
			"Encrypting data for secure transmission",
		},
		CorrectOption:    0,
		DifficultyWeight: 1,
	},
	{
		Index: 2,
		Text:  "What is the Transformer architecture?",
		Options: [4]string{
			"A neural network design that uses self-attention to process sequences",
			"A type of database for storing AI models",
			"A programming language for AI development",
			"A hardware device for processing graphics",
		},
		CorrectOption:    0,
		DifficultyWeight: 2,
	},
	{
		Index: 3,
		Text:  "What is 'self-attention' in Transformers?",
		Options: [4]string{
			"A mechanism where each word can attend to all other words in the sequence",
			"A way to make models pay attention to themselves",
			"A debugging technique for neural networks",
			"A method for training models faster",
		},
		CorrectOption:    0,
		DifficultyWeight: 2,
	},
	{
		Index: 4,
		Text:  "What are the main components of an AI agent system?",
		Options: [4]string{
			"Reasoning engine, tools/APIs, and memory/context",
			"Only a large language model",
			"Just code and data files",
			"Hardware components like GPUs and CPUs",
		},
		CorrectOption:    0,
		DifficultyWeight: 3,
	},
}

// GetQuestion returns the static question at index, or false when the index
// is outside the calibration set.
func GetQuestion(index int) (Question, bool) {
	if index < 0 || index >= QuestionCount {
		return Question{}, false
	}
	return questions[index], true
}

// Weights returns the per-question difficulty weights in question order.
func Weights() [QuestionCount]int {
	var w [QuestionCount]int
	for i, q := range questions {
		w[i] = q.DifficultyWeight
	}
	return w
}
