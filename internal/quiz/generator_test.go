package quiz

import (
	"sync"
	"testing"

	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []*domain.Drug {
	return []*domain.Drug{
		{
			ID: 1, Name: "Atenolol", Class: "Beta blocker", System: "CVS",
			Mechanism:   "Selective beta-1 receptor antagonism",
			Uses:        []string{"Hypertension", "Angina"},
			SideEffects: []string{"Bradycardia", "Fatigue"},
		},
		{
			ID: 2, Name: "Furosemide", Class: "Loop diuretic", System: "Renal",
			Mechanism:   "Inhibits Na-K-2Cl cotransporter in the thick ascending limb",
			Uses:        []string{"Edema", "Heart failure"},
			SideEffects: []string{"Hypokalemia", "Ototoxicity"},
		},
		{
			ID: 3, Name: "Omeprazole", Class: "Proton pump inhibitor", System: "GIT",
			Mechanism:   "Irreversibly inhibits gastric H+/K+ ATPase",
			Uses:        []string{"Peptic ulcer disease", "GERD"},
			SideEffects: []string{"Headache", "B12 deficiency"},
		},
		{
			ID: 4, Name: "Salbutamol", Class: "Beta-2 agonist", System: "Respiratory",
			Mechanism:   "Selective beta-2 receptor agonism causing bronchodilation",
			Uses:        []string{"Asthma", "COPD"},
			SideEffects: []string{"Tremor", "Tachycardia"},
		},
		{
			ID: 5, Name: "Diazepam", Class: "Benzodiazepine", System: "CNS",
			Mechanism:   "Potentiates GABA-A receptor chloride conductance",
			Uses:        []string{"Anxiety", "Seizures"},
			SideEffects: []string{"Sedation", "Dependence"},
		},
	}
}

func TestGenerateCapsAtPoolSize(t *testing.T) {
	t.Parallel()
	g := NewGeneratorWithSeed(1)
	pool := testPool()

	questions := g.Generate(pool, 10)

	require.Len(t, questions, 5, "question count is capped by pool size")

	// Each drug is used at most once.
	usedDrugs := make(map[int]bool)
	for _, q := range questions {
		assert.False(t, usedDrugs[q.DrugID], "drug %d used twice", q.DrugID)
		usedDrugs[q.DrugID] = true
	}
}

func TestGenerateQuestionShape(t *testing.T) {
	t.Parallel()
	pool := testPool()

	// Exercise many seeds so every question kind is hit.
	for seed := int64(0); seed < 20; seed++ {
		g := NewGeneratorWithSeed(seed)
		for _, q := range g.Generate(pool, 5) {
			assert.Len(t, q.Options, 4, "pool has enough material for 4 options (seed %d)", seed)
			require.GreaterOrEqual(t, q.CorrectIndex, 0)
			require.Less(t, q.CorrectIndex, len(q.Options))
			assert.NotEmpty(t, q.Text)
			assert.NotEmpty(t, q.ID)

			// The correct option appears exactly once.
			correct := q.Options[q.CorrectIndex]
			occurrences := 0
			for _, opt := range q.Options {
				if opt == correct {
					occurrences++
				}
			}
			assert.Equal(t, 1, occurrences, "correct answer duplicated in options (seed %d, %s)", seed, q.ID)
		}
	}
}

func TestGenerateDistractorsComeFromOtherDrugs(t *testing.T) {
	t.Parallel()
	pool := testPool()

	for seed := int64(0); seed < 20; seed++ {
		g := NewGeneratorWithSeed(seed)
		for _, q := range g.Generate(pool, 5) {
			drug := pool[q.DrugID-1]

			switch q.Type {
			case TypeUses:
				for i, opt := range q.Options {
					if i == q.CorrectIndex {
						continue
					}
					assert.NotContains(t, drug.Uses, opt,
						"distractor %q is also a use of the tested drug", opt)
				}
			case TypeSideEffects:
				for i, opt := range q.Options {
					if i == q.CorrectIndex {
						continue
					}
					assert.NotContains(t, drug.SideEffects, opt,
						"distractor %q is also a side effect of the tested drug", opt)
				}
			case TypeMOA:
				for i, opt := range q.Options {
					if i == q.CorrectIndex {
						continue
					}
					assert.NotEqual(t, drug.Mechanism, opt)
				}
			}
		}
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	t.Parallel()
	g := NewGeneratorWithSeed(7)

	assert.Empty(t, g.Generate(nil, 10))
	assert.Empty(t, g.Generate(testPool(), 0))
}

func TestGenerateThinPoolProducesShortOptionLists(t *testing.T) {
	t.Parallel()

	// Two drugs can supply at most one distractor per question.
	pool := testPool()[:2]

	for seed := int64(0); seed < 10; seed++ {
		g := NewGeneratorWithSeed(seed)
		for _, q := range g.Generate(pool, 2) {
			assert.GreaterOrEqual(t, len(q.Options), 2)
			assert.LessOrEqual(t, len(q.Options), 4)
			require.Less(t, q.CorrectIndex, len(q.Options))
		}
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	questions := []Question{
		{DrugID: 1, CorrectIndex: 1, Options: []string{"a", "b", "c", "d"}},
		{DrugID: 2, CorrectIndex: 3, Options: []string{"a", "b", "c", "d"}},
		{DrugID: 3, CorrectIndex: 0, Options: []string{"a", "b", "c", "d"}},
	}

	testCases := []struct {
		name       string
		chosen     []int
		score      int
		percentage int
	}{
		{name: "all correct", chosen: []int{1, 3, 0}, score: 3, percentage: 100},
		{name: "all wrong", chosen: []int{0, 0, 1}, score: 0, percentage: 0},
		{name: "partial", chosen: []int{1, 0, 0}, score: 2, percentage: 67},
		{name: "missing answers count as wrong", chosen: []int{1}, score: 1, percentage: 33},
		{name: "no answers", chosen: nil, score: 0, percentage: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := Score(questions, tc.chosen)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, 3, result.Total)
			assert.Equal(t, tc.percentage, result.Percentage)
		})
	}
}

func TestScoreSingleQuestion(t *testing.T) {
	t.Parallel()

	questions := []Question{{CorrectIndex: 1, Options: []string{"a", "b"}}}

	result := Score(questions, []int{1})
	assert.Equal(t, Result{Score: 1, Total: 1, Percentage: 100}, result)

	result = Score(questions, []int{0})
	assert.Equal(t, Result{Score: 0, Total: 1, Percentage: 0}, result)
}

func TestScoreEmptyQuiz(t *testing.T) {
	t.Parallel()

	result := Score(nil, nil)
	assert.Equal(t, Result{}, result, "empty quiz scores zero without dividing by zero")
}

func TestGenerateSharedAcrossGoroutines(t *testing.T) {
	t.Parallel()

	// One generator serves every request in production, so concurrent
	// Generate calls must be safe.
	g := NewGeneratorWithSeed(42)
	pool := testPool()

	const workers = 8
	results := make(chan []Question, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- g.Generate(pool, 5)
		}()
	}
	wg.Wait()
	close(results)

	for questions := range results {
		require.Len(t, questions, 5)
		for _, q := range questions {
			assert.NotEmpty(t, q.Text)
			assert.GreaterOrEqual(t, q.CorrectIndex, 0)
			assert.Less(t, q.CorrectIndex, len(q.Options))
		}
	}
}
