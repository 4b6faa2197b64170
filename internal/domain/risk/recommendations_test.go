package risk

import "testing"

func factor(key string, impact float64) ContributingFactor {
	return ContributingFactor{Factor: key, Impact: impact, Category: DomainPain}
}

func TestRecommend_CriticalLeadsWithImmediateContact(t *testing.T) {
	actions := Recommend([]ContributingFactor{factor("functional_decline", 0.9)}, LevelCritical)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %+v", actions)
	}
	if actions[0].Action != ActionContactImmediately {
		t.Errorf("expected %s first, got %s", ActionContactImmediately, actions[0].Action)
	}
}

func TestRecommend_DedupesAndSortsByPriority(t *testing.T) {
	factors := []ContributingFactor{
		factor("high_pain_level", 0.9),
		factor("pain_increasing", 0.8),
		factor("compensation_patterns", 0.6),
		factor("low_adherence", 0.9),
	}
	actions := Recommend(factors, LevelHigh)

	want := []string{"review_pain_management", "adherence_conversation", "technique_feedback"}
	if len(actions) != len(want) {
		t.Fatalf("expected %v, got %+v", want, actions)
	}
	for i, key := range want {
		if actions[i].Action != key {
			t.Errorf("action %d: expected %s, got %s", i, key, actions[i].Action)
		}
	}
}

func TestRecommend_OnlyTopFiveFactors(t *testing.T) {
	factors := []ContributingFactor{
		factor("high_pain_level", 0.9),
		factor("low_adherence", 0.9),
		factor("high_anxiety", 0.8),
		factor("poor_movement_quality", 0.8),
		factor("poor_sleep", 0.7),
		factor("plateau", 0.6),
	}
	for _, a := range Recommend(factors, LevelHigh) {
		if a.Action == "progress_program" {
			t.Error("sixth factor must not produce an action")
		}
	}
}

func TestRecommend_EveryFactorHasAnAction(t *testing.T) {
	for key, action := range factorActions {
		if _, ok := actionCatalog[action]; !ok {
			t.Errorf("factor %s maps to unknown action %s", key, action)
		}
	}
}
