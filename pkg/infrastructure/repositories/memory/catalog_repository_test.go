package memory

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
)

func sampleCatalog() ([]entities.BloodType, []entities.BloodComponent) {
	bloodTypes := []entities.BloodType{
		{
			ID:          1,
			TypeName:    "O_NEG",
			Components:  []entities.ComponentRef{{ComponentID: 10, ComponentName: "PLASMA"}},
			CanDonateTo: []entities.BloodTypeID{1, 2},
		},
		{ID: 2, TypeName: "A_POS", CanDonateTo: []entities.BloodTypeID{2}},
	}
	components := []entities.BloodComponent{
		{ComponentID: 10, ComponentName: "PLASMA"},
		{ComponentID: 11, ComponentName: "PLATELETS"},
	}
	return bloodTypes, components
}

func TestCatalogRepository_ReadBeforeLoad(t *testing.T) {
	repo := NewCatalogRepository()

	if _, err := repo.BloodTypes(); !errors.Is(err, repositories.ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded from BloodTypes, got %v", err)
	}
	if _, err := repo.Components(); !errors.Is(err, repositories.ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded from Components, got %v", err)
	}
	if _, found := repo.FindBloodType(1); found {
		t.Error("Expected lookup miss before load")
	}
	if repo.Loaded() {
		t.Error("Expected repository to report not loaded")
	}
}

func TestCatalogRepository_LoadAndFind(t *testing.T) {
	repo := NewCatalogRepository()
	bloodTypes, components := sampleCatalog()

	if err := repo.Load(bloodTypes, components); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	bt, found := repo.FindBloodType(2)
	if !found {
		t.Fatal("Expected blood type 2 to be found")
	}
	if bt.TypeName != "A_POS" {
		t.Errorf("Expected A_POS, got %s", bt.TypeName)
	}

	c, found := repo.FindComponent(11)
	if !found || c.ComponentName != "PLATELETS" {
		t.Errorf("Expected component PLATELETS, got %v (found=%t)", c, found)
	}

	if _, found := repo.FindBloodType(999); found {
		t.Error("Expected lookup miss for unknown id")
	}
	if _, found := repo.FindComponent(999); found {
		t.Error("Expected lookup miss for unknown component id")
	}
}

func TestCatalogRepository_LoadReplacesWholesale(t *testing.T) {
	repo := NewCatalogRepository()
	bloodTypes, components := sampleCatalog()

	if err := repo.Load(bloodTypes, components); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	if err := repo.Load([]entities.BloodType{{ID: 5, TypeName: "AB_POS"}}, nil); err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}

	all, err := repo.BloodTypes()
	if err != nil {
		t.Fatalf("Failed to list blood types: %v", err)
	}
	if len(all) != 1 || all[0].ID != 5 {
		t.Errorf("Expected only blood type 5 after reload, got %v", all)
	}
	if _, found := repo.FindBloodType(1); found {
		t.Error("Expected blood type 1 to be gone after reload")
	}
	comps, err := repo.Components()
	if err != nil || len(comps) != 0 {
		t.Errorf("Expected no components after reload, got %v (err=%v)", comps, err)
	}
}

func TestCatalogRepository_CallerMutationDoesNotLeak(t *testing.T) {
	repo := NewCatalogRepository()
	bloodTypes, components := sampleCatalog()

	if err := repo.Load(bloodTypes, components); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	bloodTypes[0].CanDonateTo[0] = 99
	listed, _ := repo.BloodTypes()
	listed[0].TypeName = "MUTATED"
	listed[0].CanDonateTo[1] = 77

	again, _ := repo.FindBloodType(1)
	if again.TypeName != "O_NEG" {
		t.Errorf("Expected stored name O_NEG, got %s", again.TypeName)
	}
	if !reflect.DeepEqual(again.CanDonateTo, []entities.BloodTypeID{1, 2}) {
		t.Errorf("Expected stored adjacency [1 2], got %v", again.CanDonateTo)
	}
}

func TestCatalogRepository_ConcurrentReload(t *testing.T) {
	repo := NewCatalogRepository()
	small := []entities.BloodType{{ID: 1, TypeName: "O_NEG"}}
	large := []entities.BloodType{{ID: 1, TypeName: "O_NEG"}, {ID: 2, TypeName: "A_POS"}, {ID: 3, TypeName: "B_POS"}}

	if err := repo.Load(small, nil); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					_ = repo.Load(small, nil)
				} else {
					_ = repo.Load(large, nil)
				}
			}
		}(i)
	}

	for j := 0; j < 500; j++ {
		all, err := repo.BloodTypes()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(all) != len(small) && len(all) != len(large) {
			t.Fatalf("Observed a partial snapshot with %d types", len(all))
		}
	}
	wg.Wait()
}
