package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "multiple_choice_single"
	QuestionMultiChoice  QuestionType = "multiple_choice_multiple"
	QuestionTrueFalse    QuestionType = "true_false"
)

type AnswerKind int

const (
	AnswerIndex AnswerKind = iota
	AnswerIndexList
	AnswerBool
)

// Answer is the tagged form of the correct_answer union found in quiz.yml
// (scalar index, list of indices, or boolean). The kind must agree with the
// owning question's type; the validation pipeline enforces that.
type Answer struct {
	Kind    AnswerKind
	Index   int
	Indices []int
	Bool    bool
}

func IndexAnswer(i int) Answer          { return Answer{Kind: AnswerIndex, Index: i} }
func IndexListAnswer(is ...int) Answer  { return Answer{Kind: AnswerIndexList, Indices: is} }
func BoolAnswer(b bool) Answer          { return Answer{Kind: AnswerBool, Bool: b} }

// Equal reports whether two answers match. Index lists compare
// order-independently.
func (a Answer) Equal(b Answer) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AnswerBool:
		return a.Bool == b.Bool
	case AnswerIndex:
		return a.Index == b.Index
	case AnswerIndexList:
		if len(a.Indices) != len(b.Indices) {
			return false
		}
		as := append([]int(nil), a.Indices...)
		bs := append([]int(nil), b.Indices...)
		sort.Ints(as)
		sort.Ints(bs)
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (a *Answer) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!bool" {
			var b bool
			if err := value.Decode(&b); err != nil {
				return fmt.Errorf("correct_answer: %w", err)
			}
			*a = BoolAnswer(b)
			return nil
		}
		var i int
		if err := value.Decode(&i); err != nil {
			return fmt.Errorf("correct_answer: unsupported scalar %q", value.Value)
		}
		*a = IndexAnswer(i)
		return nil
	case yaml.SequenceNode:
		var is []int
		if err := value.Decode(&is); err != nil {
			return fmt.Errorf("correct_answer: %w", err)
		}
		*a = IndexListAnswer(is...)
		return nil
	default:
		return fmt.Errorf("correct_answer: unsupported YAML node")
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = BoolAnswer(b)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*a = IndexAnswer(i)
		return nil
	}
	var is []int
	if err := json.Unmarshal(data, &is); err == nil {
		*a = IndexListAnswer(is...)
		return nil
	}
	return fmt.Errorf("answer: expected bool, index or index list")
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerBool:
		return json.Marshal(a.Bool)
	case AnswerIndexList:
		if a.Indices == nil {
			return json.Marshal([]int{})
		}
		return json.Marshal(a.Indices)
	default:
		return json.Marshal(a.Index)
	}
}

type QuizQuestion struct {
	ID            string       `yaml:"id" json:"id" validate:"required"`
	Type          QuestionType `yaml:"type" json:"type" validate:"required,oneof=multiple_choice_single multiple_choice_multiple true_false"`
	Question      string       `yaml:"question" json:"question" validate:"required,min=5"`
	Options       []string     `yaml:"options" json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer Answer       `yaml:"correct_answer" json:"correct_answer"`
	Explanation   string       `yaml:"explanation" json:"explanation,omitempty"`
	Hint          string       `yaml:"hint" json:"hint,omitempty"`
	Points        int          `yaml:"points" json:"points" validate:"min=1"`
}

func (q *QuizQuestion) UnmarshalYAML(value *yaml.Node) error {
	type plain QuizQuestion
	out := plain{Points: 10}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*q = QuizQuestion(out)
	return nil
}

// TotalPoints sums the point value of every question.
func TotalPoints(questions []QuizQuestion) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// Quiz is the quiz.yml document of a course. The file may wrap the quiz in a
// top-level "quiz" key or hold it directly; the loader accepts both shapes.
type Quiz struct {
	CourseID     string         `yaml:"course_id" json:"course_id" validate:"required"`
	Title        string         `yaml:"title" json:"title" validate:"required,min=3"`
	Description  string         `yaml:"description" json:"description,omitempty"`
	TimeLimit    int            `yaml:"time_limit" json:"time_limit" validate:"min=60"`
	PassingScore int            `yaml:"passing_score" json:"passing_score" validate:"min=0,max=100"`
	Questions    []QuizQuestion `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
}

func (q *Quiz) UnmarshalYAML(value *yaml.Node) error {
	type plain Quiz
	out := plain{TimeLimit: 1800, PassingScore: 70}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*q = Quiz(out)
	return nil
}

// QuizFile is the wrapped quiz.yml shape.
type QuizFile struct {
	Quiz Quiz `yaml:"quiz"`
}
