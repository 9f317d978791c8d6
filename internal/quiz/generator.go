// Package quiz synthesizes multiple-choice questions from the drug catalog
// and scores submitted answers. Distractors are drawn from other drugs in
// the pool so every option is plausible domain text.
package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// QuestionType identifies what a question asks about.
type QuestionType string

// Question type values
const (
	TypeMOA         QuestionType = "moa"
	TypeUses        QuestionType = "uses"
	TypeSideEffects QuestionType = "side_effects"
	TypeGeneral     QuestionType = "general"
)

// Question is one synthesized multiple-choice question. Options normally
// holds four entries; when the pool cannot supply three valid distractors
// the list is shorter, and CorrectIndex always points at the correct one.
type Question struct {
	ID           string       `json:"id"`
	DrugID       int          `json:"drug_id"`
	Text         string       `json:"question"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_answer"`
	Type         QuestionType `json:"type"`
}

// questionKind is the internal sampling space. Class and system questions
// both surface as TypeGeneral.
type questionKind int

const (
	kindMOA questionKind = iota
	kindUses
	kindSideEffects
	kindClass
	kindSystem
	kindCount
)

// Generator synthesizes quiz questions from a drug pool. A single
// Generator is shared by concurrent requests; the mutex serializes access
// to the rng, which is not safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a Generator with a fixed seed, which makes
// generation deterministic for tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces up to count questions from the pool, one per distinct
// drug. An empty pool yields an empty slice. The number of questions is
// capped by the pool size.
func (g *Generator) Generate(pool []*domain.Drug, count int) []Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return []Question{}
	}

	shuffled := make([]*domain.Drug, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	questions := make([]Question, 0, count)
	for _, drug := range shuffled[:count] {
		kind := questionKind(g.rng.Intn(int(kindCount)))
		questions = append(questions, g.buildQuestion(drug, pool, kind))
	}

	return questions
}

// buildQuestion dispatches to the kind-specific builder, falling back to a
// class question when the drug lacks the list the kind needs.
func (g *Generator) buildQuestion(drug *domain.Drug, pool []*domain.Drug, kind questionKind) Question {
	switch kind {
	case kindMOA:
		return g.mechanismQuestion(drug, pool)
	case kindUses:
		if len(drug.Uses) == 0 {
			return g.classQuestion(drug, pool)
		}
		return g.usesQuestion(drug, pool)
	case kindSideEffects:
		if len(drug.SideEffects) == 0 {
			return g.classQuestion(drug, pool)
		}
		return g.sideEffectsQuestion(drug, pool)
	case kindSystem:
		return g.systemQuestion(drug, pool)
	default:
		return g.classQuestion(drug, pool)
	}
}

func (g *Generator) mechanismQuestion(drug *domain.Drug, pool []*domain.Drug) Question {
	var candidates []string
	for _, other := range pool {
		if other.ID != drug.ID && other.Mechanism != drug.Mechanism {
			candidates = append(candidates, other.Mechanism)
		}
	}

	return g.assemble(
		drug,
		TypeMOA,
		fmt.Sprintf("What is the mechanism of action of %s?", drug.Name),
		drug.Mechanism,
		candidates,
	)
}

func (g *Generator) usesQuestion(drug *domain.Drug, pool []*domain.Drug) Question {
	correct := drug.Uses[g.rng.Intn(len(drug.Uses))]

	// Exclude every use of the tested drug so no distractor is accidentally
	// a second correct option.
	candidates := otherListEntries(drug, pool, func(d *domain.Drug) []string { return d.Uses })

	return g.assemble(
		drug,
		TypeUses,
		fmt.Sprintf("Which of the following is a clinical use of %s?", drug.Name),
		correct,
		candidates,
	)
}

func (g *Generator) sideEffectsQuestion(drug *domain.Drug, pool []*domain.Drug) Question {
	correct := drug.SideEffects[g.rng.Intn(len(drug.SideEffects))]

	candidates := otherListEntries(drug, pool, func(d *domain.Drug) []string { return d.SideEffects })

	return g.assemble(
		drug,
		TypeSideEffects,
		fmt.Sprintf("Which of the following is a side effect of %s?", drug.Name),
		correct,
		candidates,
	)
}

func (g *Generator) classQuestion(drug *domain.Drug, pool []*domain.Drug) Question {
	var candidates []string
	for _, other := range pool {
		if other.ID != drug.ID && other.Class != drug.Class {
			candidates = append(candidates, other.Class)
		}
	}

	return g.assemble(
		drug,
		TypeGeneral,
		fmt.Sprintf("%s belongs to which drug class?", drug.Name),
		drug.Class,
		candidates,
	)
}

func (g *Generator) systemQuestion(drug *domain.Drug, pool []*domain.Drug) Question {
	var candidates []string
	for _, other := range pool {
		if other.ID != drug.ID && other.System != drug.System {
			candidates = append(candidates, string(other.System))
		}
	}

	return g.assemble(
		drug,
		TypeGeneral,
		fmt.Sprintf("%s primarily affects which body system?", drug.Name),
		string(drug.System),
		candidates,
	)
}

// otherListEntries gathers list entries from every other drug in the pool,
// excluding any value that also appears in the tested drug's own list.
func otherListEntries(drug *domain.Drug, pool []*domain.Drug, list func(*domain.Drug) []string) []string {
	own := make(map[string]struct{}, len(list(drug)))
	for _, v := range list(drug) {
		own[v] = struct{}{}
	}

	var candidates []string
	for _, other := range pool {
		if other.ID == drug.ID {
			continue
		}
		for _, v := range list(other) {
			if _, dup := own[v]; !dup {
				candidates = append(candidates, v)
			}
		}
	}

	return candidates
}

// assemble deduplicates and samples up to three distractors, mixes in the
// correct answer, shuffles the options, and records the correct index.
// A thin pool can yield fewer than four options; callers must tolerate
// shorter lists.
func (g *Generator) assemble(
	drug *domain.Drug,
	qType QuestionType,
	text string,
	correct string,
	candidates []string,
) Question {
	distractors := g.sampleDistinct(candidates, 3)

	options := make([]string, 0, len(distractors)+1)
	options = append(options, correct)
	options = append(options, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return Question{
		ID:           fmt.Sprintf("%s_%d_%s", qType, drug.ID, uuid.NewString()),
		DrugID:       drug.ID,
		Text:         text,
		Options:      options,
		CorrectIndex: correctIndex,
		Type:         qType,
	}
}

// sampleDistinct shuffles the deduplicated candidates and takes up to n.
func (g *Generator) sampleDistinct(candidates []string, n int) []string {
	seen := make(map[string]struct{}, len(candidates))
	distinct := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		distinct = append(distinct, c)
	}

	g.rng.Shuffle(len(distinct), func(i, j int) {
		distinct[i], distinct[j] = distinct[j], distinct[i]
	})

	if len(distinct) > n {
		distinct = distinct[:n]
	}

	return distinct
}
