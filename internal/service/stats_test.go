package service

import (
	"context"
	"testing"

	"memotheque/internal/core/config"
	"memotheque/internal/domain"
)

func TestStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	st := NewStats(db, nil)

	got, err := st.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalTheses != 0 || len(got.PerEntity) != 0 || len(got.PerSession) != 0 || len(got.TopPrograms) != 0 {
		t.Fatalf("empty stats = %+v", got)
	}
}

func TestStatsAggregates(t *testing.T) {
	db := newTestDB(t)
	entA, progA, sesA := seedCatalog(t, db)

	entB := domain.Entity{Name: "École de Droit"}
	if err := db.Create(&entB).Error; err != nil {
		t.Fatal(err)
	}
	progB := domain.Program{Name: "Droit privé", EntityID: entB.ID}
	if err := db.Create(&progB).Error; err != nil {
		t.Fatal(err)
	}
	sesB := domain.Session{Label: "2024-2025"}
	if err := db.Create(&sesB).Error; err != nil {
		t.Fatal(err)
	}

	svc, _ := newTestTheses(t, db, config.Storage{})

	// entA/progA: 3 篇（2 篇 sesA，1 篇 sesB），entB/progB: 1 篇 sesB
	in := validInput(progA, sesA)
	mustCreateThesis(t, svc, in, "A1")
	mustCreateThesis(t, svc, in, "A2")
	in.SessionID = sesB.ID
	mustCreateThesis(t, svc, in, "A3")

	inB := validInput(progB, sesB)
	mustCreateThesis(t, svc, inB, "B1")

	st := NewStats(db, nil)
	got, err := st.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.TotalTheses != 4 {
		t.Errorf("TotalTheses = %d, want 4", got.TotalTheses)
	}

	// 按数量降序
	if len(got.PerEntity) != 2 ||
		got.PerEntity[0].Name != entA.Name || got.PerEntity[0].Count != 3 ||
		got.PerEntity[1].Name != entB.Name || got.PerEntity[1].Count != 1 {
		t.Errorf("PerEntity = %+v", got.PerEntity)
	}

	// 学年按标签降序
	if len(got.PerSession) != 2 ||
		got.PerSession[0].Name != "2024-2025" || got.PerSession[0].Count != 2 ||
		got.PerSession[1].Name != "2023-2024" || got.PerSession[1].Count != 2 {
		t.Errorf("PerSession = %+v", got.PerSession)
	}

	if len(got.TopPrograms) != 2 ||
		got.TopPrograms[0].Name != "Informatique" || got.TopPrograms[0].Count != 3 {
		t.Errorf("TopPrograms = %+v", got.TopPrograms)
	}
}
