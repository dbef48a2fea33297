package plans

import "testing"

func TestRank(t *testing.T) {
	cases := map[string]int{
		Free:       0,
		Basic:      1,
		Pro:        2,
		Enterprise: 3,
		"unknown":  0,
		"":         0,
	}

	for plan, want := range cases {
		if got := Rank(plan); got != want {
			t.Errorf("Rank(%q) = %d, want %d", plan, got, want)
		}
	}
}

func TestAllows(t *testing.T) {
	tiers := []string{Free, Basic, Pro, Enterprise}

	for i, userPlan := range tiers {
		for j, requiredPlan := range tiers {
			want := i >= j

			if got := Allows(userPlan, requiredPlan); got != want {
				t.Errorf("Allows(%q, %q) = %v, want %v", userPlan, requiredPlan, got, want)
			}
		}
	}
}

func TestAllowsUnknownUserPlan(t *testing.T) {
	if Allows("mystery", Basic) {
		t.Error("unknown plan should rank as free and be denied basic")
	}

	if !Allows("mystery", Free) {
		t.Error("unknown plan should still be allowed free routes")
	}
}

func TestValid(t *testing.T) {
	for _, plan := range []string{Free, Basic, Pro, Enterprise} {
		if !Valid(plan) {
			t.Errorf("Valid(%q) = false", plan)
		}
	}

	if Valid("gold") {
		t.Error("Valid(\"gold\") = true")
	}
}
