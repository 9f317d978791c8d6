// Package gamification evaluates a static achievement catalog against a
// user's lifetime study statistics. Unlock status is derived on every
// evaluation; nothing here is persisted.
package gamification

// Category groups achievements by the statistic they gate on.
type Category string

// Achievement categories
const (
	CategoryStreak   Category = "streak"
	CategoryAccuracy Category = "accuracy"
	CategoryVolume   Category = "volume"
	CategorySpeed    Category = "speed"
	CategoryMastery  Category = "mastery"
)

// Achievement IDs
const (
	Streak3      = "streak_3"
	Streak7      = "streak_7"
	Streak30     = "streak_30"
	Streak100    = "streak_100"
	Accuracy80   = "accuracy_80"
	Accuracy90   = "accuracy_90"
	Accuracy95   = "accuracy_95"
	Cards50      = "cards_50"
	Cards200     = "cards_200"
	Cards500     = "cards_500"
	Cards1000    = "cards_1000"
	QuizPerfect  = "quiz_perfect"
	Sessions10   = "sessions_10"
	Sessions50   = "sessions_50"
	SystemMaster = "system_master"
	Time10h      = "time_10h"
	Time50h      = "time_50h"
)

// Achievement is one entry in the static catalog. Requirement is a
// threshold in the category's unit: days for streaks, percent for accuracy
// and mastery, counts for volume and sessions, minutes for time.
type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Requirement int      `json:"requirement"`
}

// Catalog is the fixed achievement table.
var Catalog = []Achievement{
	{ID: Streak3, Name: "Getting Started", Description: "Study for 3 consecutive days", Icon: "🔥", Category: CategoryStreak, Requirement: 3},
	{ID: Streak7, Name: "Week Warrior", Description: "Study for 7 consecutive days", Icon: "⚡", Category: CategoryStreak, Requirement: 7},
	{ID: Streak30, Name: "Monthly Master", Description: "Study for 30 consecutive days", Icon: "🏆", Category: CategoryStreak, Requirement: 30},
	{ID: Streak100, Name: "Century Scholar", Description: "Study for 100 consecutive days", Icon: "👑", Category: CategoryStreak, Requirement: 100},

	{ID: Accuracy80, Name: "Sharp Mind", Description: "Achieve 80% accuracy overall", Icon: "🎯", Category: CategoryAccuracy, Requirement: 80},
	{ID: Accuracy90, Name: "Precision Expert", Description: "Achieve 90% accuracy overall", Icon: "🏹", Category: CategoryAccuracy, Requirement: 90},
	{ID: Accuracy95, Name: "Near Perfect", Description: "Achieve 95% accuracy overall", Icon: "💎", Category: CategoryAccuracy, Requirement: 95},

	{ID: Cards50, Name: "Dedicated Learner", Description: "Study 50 flashcards", Icon: "📚", Category: CategoryVolume, Requirement: 50},
	{ID: Cards200, Name: "Knowledge Seeker", Description: "Study 200 flashcards", Icon: "🎓", Category: CategoryVolume, Requirement: 200},
	{ID: Cards500, Name: "Study Machine", Description: "Study 500 flashcards", Icon: "🤖", Category: CategoryVolume, Requirement: 500},
	{ID: Cards1000, Name: "Master Scholar", Description: "Study 1000 flashcards", Icon: "🧙‍♂️", Category: CategoryVolume, Requirement: 1000},

	{ID: QuizPerfect, Name: "Perfect Score", Description: "Get 100% on any quiz", Icon: "⭐", Category: CategorySpeed, Requirement: 100},
	{ID: Sessions10, Name: "Consistent Student", Description: "Complete 10 study sessions", Icon: "📖", Category: CategorySpeed, Requirement: 10},
	{ID: Sessions50, Name: "Study Veteran", Description: "Complete 50 study sessions", Icon: "🎖️", Category: CategorySpeed, Requirement: 50},

	{ID: SystemMaster, Name: "System Master", Description: "Achieve 90% accuracy in any system", Icon: "🏅", Category: CategoryMastery, Requirement: 90},
	{ID: Time10h, Name: "Time Invested", Description: "Study for 10 total hours", Icon: "⏰", Category: CategoryMastery, Requirement: 600},
	{ID: Time50h, Name: "Dedicated Scholar", Description: "Study for 50 total hours", Icon: "⌛", Category: CategoryMastery, Requirement: 3000},
}

// ByID returns the catalog entry with the given ID, or false if none exists.
func ByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// ByCategory returns all catalog entries in the given category, in catalog
// order.
func ByCategory(category Category) []Achievement {
	var matched []Achievement
	for _, a := range Catalog {
		if a.Category == category {
			matched = append(matched, a)
		}
	}
	return matched
}
