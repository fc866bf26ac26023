package reasoning

import (
	"fmt"

	"github.com/abhisek/learnai/internal/progression"
)

// imageSearchTerms maps each module to its visual-asset search phrase.
var imageSearchTerms = map[string]string{
	"fundamentals":      "artificial intelligence basics",
	"transformers_llms": "neural network transformer diagram",
	"agents":            "AI agent workflow illustration",
	"build_todo_agent":  "task management system",
}

// predefinedQuestions are the per-module check questions used when no
// provider can generate fresh ones: one multiple-choice and one
// open-ended per module.
var predefinedQuestions = map[string][]CheckQuestion{
	"fundamentals": {
		{
			Question: "What is the primary difference between AI and a simple database lookup?",
			Options: []string{
				"AI generates responses based on learned patterns, while databases retrieve stored information",
				"AI is faster than databases",
				"AI uses more storage space",
				"Databases are more accurate than AI",
			},
			CorrectOption: 0,
		},
		{
			Question: "How do Large Language Models (LLMs) actually work? Describe the process in simple terms.",
		},
	},
	"transformers_llms": {
		{
			Question: "What is the key innovation of the Transformer architecture?",
			Options: []string{
				"Self-attention mechanism that processes all words simultaneously",
				"Using more layers than previous models",
				"Training on larger datasets",
				"Using GPUs for computation",
			},
			CorrectOption: 0,
		},
		{
			Question: "Explain how self-attention allows a Transformer model to understand context better than previous architectures.",
		},
	},
	"agents": {
		{
			Question: "What are the main components of an AI agent?",
			Options: []string{
				"Reasoning, tools, and memory",
				"Only neural networks",
				"Just code and data",
				"Only APIs",
			},
			CorrectOption: 0,
		},
		{
			Question: "Describe how an AI agent uses reasoning, tools, and memory together to complete a task. Give an example.",
		},
	},
	"build_todo_agent": {
		{
			Question: "What type of tasks would a todo agent typically handle?",
			Options: []string{
				"Managing tasks, reminders, and schedules",
				"Playing video games",
				"Cooking recipes",
				"Driving cars",
			},
			CorrectOption: 0,
		},
		{
			Question: "Explain what tools and capabilities a todo agent would need to effectively help someone manage their tasks and schedule.",
		},
	},
}

func imageSearchTerm(module string) string {
	if term, ok := imageSearchTerms[module]; ok {
		return term
	}
	return "AI concept"
}

func nextInSequence(module string) string {
	seq := progression.Sequence
	for i, m := range seq {
		if m == module {
			if i+1 < len(seq) {
				return seq[i+1]
			}
			return m
		}
	}
	return module
}

// fallbackLessonPlan is the deterministic lesson plan used when no
// provider is reachable.
func fallbackLessonPlan(in LessonInputs) *LessonPlan {
	questions := make([]CheckQuestion, len(predefinedQuestions[in.Module]))
	copy(questions, predefinedQuestions[in.Module])
	for i := range questions {
		questions[i].GlobalIndex = i
	}

	style := in.LearningStyle
	if style == "" {
		style = "text"
	}

	return &LessonPlan{
		ModuleFile:     in.Module + ".md",
		DifficultyTag:  in.Difficulty,
		ImageSearch:    imageSearchTerm(in.Module),
		CheckQuestions: questions,
		SuggestedStyle: style,
		NextModule:     nextInSequence(in.Module),
	}
}

// fallbackCapstone emits the templated todo agent when no provider is
// reachable. The template is a complete runnable program.
func fallbackCapstone(taskDescription string) *CapstoneResult {
	code := fmt.Sprintf(`// Simple To-Do Agent
// Task: %s

package main

import "fmt"

type Task struct {
	Name     string
	Priority string
}

type TodoAgent struct {
	tasks     []Task
	completed []Task
}

func (a *TodoAgent) AddTask(name, priority string) string {
	a.tasks = append(a.tasks, Task{Name: name, Priority: priority})
	return "Added: " + name
}

func (a *TodoAgent) CompleteTask(i int) string {
	if i < 0 || i >= len(a.tasks) {
		return "Invalid task index"
	}
	done := a.tasks[i]
	a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
	a.completed = append(a.completed, done)
	return "Completed: " + done.Name
}

func (a *TodoAgent) ListTasks() string {
	if len(a.tasks) == 0 {
		return "No pending tasks!"
	}
	out := ""
	for i, t := range a.tasks {
		out += fmt.Sprintf("%%d. [%%s] %%s\n", i, t.Priority, t.Name)
	}
	return out
}

func main() {
	agent := &TodoAgent{}
	agent.AddTask("Learn about AI fundamentals", "high")
	agent.AddTask("Build my first agent", "high")
	agent.AddTask("Celebrate completion", "medium")
	fmt.Println("Todo Agent initialized for: %s")
	fmt.Println(agent.ListTasks())
}
`, taskDescription, taskDescription)

	return &CapstoneResult{
		AgentCode:   code,
		Description: fmt.Sprintf("A simple todo agent for: %s", taskDescription),
		NextSteps: []string{
			"Review the generated code",
			"Run it to see how it works",
			"Customize it for your specific needs",
			"Add more features as you learn",
		},
	}
}
