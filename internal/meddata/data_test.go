package meddata

import (
	"fmt"
	"testing"

	"github.com/NKoziel/locum-tui/internal/engine"
)

func loadCatalog(t *testing.T) *engine.Catalog {
	t.Helper()
	data, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cat, err := engine.NewCatalog(data)
	if err != nil {
		t.Fatalf("shipped catalog fails validation: %v", err)
	}
	return cat
}

func TestShippedCatalogValidates(t *testing.T) {
	cat := loadCatalog(t)
	if got := len(cat.Conditions()); got != 16 {
		t.Fatalf("condition count %d, want 16", got)
	}
	for _, spec := range engine.AllSpecializations {
		if _, ok := cat.Profile(spec); !ok {
			t.Fatalf("no profile for %s", spec)
		}
		conds, err := cat.Lookup(spec)
		if err != nil {
			t.Fatalf("lookup %s: %v", spec, err)
		}
		if len(conds) < 3 {
			t.Fatalf("%s registers only %d conditions", spec, len(conds))
		}
	}
}

func TestEveryDifficultyBandIsCovered(t *testing.T) {
	cat := loadCatalog(t)
	seed, err := engine.NewRunSeed("coverage")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	// the shipped data never needs the uniform fallback
	for _, spec := range engine.AllSpecializations {
		for _, diff := range engine.AllDifficulties {
			label := fmt.Sprintf("%s:%s", spec, diff)
			if _, err := cat.PickCondition(spec, diff, seed.Stream(label)); err != nil {
				t.Fatalf("%s at %s has no eligible condition: %v", spec, diff, err)
			}
		}
	}
}

func TestEveryCaseIsSolvable(t *testing.T) {
	cat := loadCatalog(t)
	for _, cond := range cat.Conditions() {
		if len(cond.RecommendedTreatments) == 0 {
			t.Fatalf("%s has no winning intervention", cond.Name)
		}
		profile, ok := cat.Profile(cond.Specialization)
		if !ok {
			t.Fatalf("%s: missing profile", cond.Name)
		}
		for _, name := range cond.RecommendedTreatments {
			if _, isMed := cat.MedicationByName(name); isMed {
				continue // medications are orderable from any specialization
			}
			if _, isTreatment := cat.TreatmentByName(name); !isTreatment {
				t.Fatalf("%s recommends unknown intervention %q", cond.Name, name)
			}
			found := false
			for _, offered := range profile.Treatments {
				if offered == name {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s recommends %q which its own specialization cannot order", cond.Name, name)
			}
		}
	}
}

func TestRecommendedTestsAreOffered(t *testing.T) {
	cat := loadCatalog(t)
	for _, cond := range cat.Conditions() {
		profile, _ := cat.Profile(cond.Specialization)
		offered := make(map[string]bool, len(profile.Tests))
		for _, name := range profile.Tests {
			offered[name] = true
		}
		for _, name := range cond.RecommendedTests {
			if !offered[name] {
				t.Fatalf("%s recommends %q which %s does not offer", cond.Name, name, cond.Specialization)
			}
		}
	}
}

func TestGeneratedCasesPresentAbnormally(t *testing.T) {
	cat := loadCatalog(t)
	// a hard case should rarely present with fully normal vitals
	abnormal := 0
	total := 0
	for i := 0; i < 30; i++ {
		seed, err := engine.NewRunSeed(fmt.Sprintf("presentation-%d", i))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		for _, spec := range engine.AllSpecializations {
			p, err := engine.NewPatient(cat, spec, engine.DifficultyHard, seed.Stream(string(spec)))
			if err != nil {
				t.Fatalf("patient: %v", err)
			}
			total++
			for _, status := range p.Vitals.Classifications() {
				if status != engine.StatusNormal {
					abnormal++
					break
				}
			}
		}
	}
	if abnormal*2 < total {
		t.Fatalf("only %d of %d hard cases presented abnormal vitals", abnormal, total)
	}
}
