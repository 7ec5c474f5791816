package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kamelfcis/childtodotasks/internal/storage"
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func addTestChild(t *testing.T, svc *Service, name string) *storage.Child {
	t.Helper()
	c, err := svc.AddChild(context.Background(), AddChildInput{Name: name})
	if err != nil {
		t.Fatalf("add child %s: %v", name, err)
	}
	return c
}

func addTestTemplate(t *testing.T, svc *Service, title string, points int) *storage.TaskTemplate {
	t.Helper()
	tmpl, err := svc.AddTaskTemplate(context.Background(), AddTaskTemplateInput{Title: title, Points: points})
	if err != nil {
		t.Fatalf("add template %s: %v", title, err)
	}
	return tmpl
}

func addTestGift(t *testing.T, svc *Service, title string, cost int) *storage.GiftTemplate {
	t.Helper()
	g, err := svc.AddGift(context.Background(), AddGiftInput{Title: title, Cost: cost})
	if err != nil {
		t.Fatalf("add gift %s: %v", title, err)
	}
	return g
}

func grantPoints(t *testing.T, svc *Service, childID string, points int) {
	t.Helper()
	if _, err := svc.AdjustBalance(context.Background(), AdjustInput{ChildID: childID, Delta: points, Note: "test grant"}); err != nil {
		t.Fatalf("grant %d points: %v", points, err)
	}
}

func TestEnsureDailyTasksIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	addTestTemplate(t, svc, "Brush Teeth", 5)
	addTestTemplate(t, svc, "Clean Room", 10)
	addTestTemplate(t, svc, "Read a Book", 10)

	day := Day("2026-03-01")
	first, err := svc.EnsureDailyTasks(ctx, child.ID, day)
	if err != nil {
		t.Fatalf("ensure #1: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("ensure #1 created %d instances, want 3", len(first))
	}

	second, err := svc.EnsureDailyTasks(ctx, child.ID, day)
	if err != nil {
		t.Fatalf("ensure #2: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("ensure #2 returned %d instances, want 3", len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ensure #2 replaced instance %d: %s != %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestEnsureDailyTasksConcurrent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")
	for _, title := range []string{"Brush Teeth", "Pray", "Drink Water", "Exercise"} {
		addTestTemplate(t, svc, title, 5)
	}

	day := Day("2026-03-02")
	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.EnsureDailyTasks(ctx, child.ID, day)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent ensure #%d: %v", i, err)
		}
	}

	instances, err := svc.ListDay(ctx, child.ID, day)
	if err != nil {
		t.Fatalf("list day: %v", err)
	}
	if len(instances) != 4 {
		t.Fatalf("got %d instances after %d concurrent ensures, want 4", len(instances), callers)
	}
}

func TestEnsureDailyTasksPicksUpNewTemplates(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	addTestTemplate(t, svc, "Brush Teeth", 5)

	day := Day("2026-03-03")
	first, err := svc.EnsureDailyTasks(ctx, child.ID, day)
	if err != nil {
		t.Fatalf("ensure #1: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("ensure #1 created %d instances, want 1", len(first))
	}

	addTestTemplate(t, svc, "Clean Room", 10)

	second, err := svc.EnsureDailyTasks(ctx, child.ID, day)
	if err != nil {
		t.Fatalf("ensure #2: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("ensure #2 returned %d instances, want 2", len(second))
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("existing instance was replaced: %s != %s", second[0].ID, first[0].ID)
	}
}

func TestCompleteCreditsExactlyOnce(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	addTestTemplate(t, svc, "Brush Teeth", 5)

	instances, err := svc.EnsureDailyTasks(ctx, child.ID, Day("2026-03-04"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	res, err := svc.Complete(ctx, instances[0].ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.AlreadyDone {
		t.Fatalf("first complete reported AlreadyDone")
	}
	if res.PointsAwarded != 5 || res.NewBalance != 5 {
		t.Fatalf("awarded=%d balance=%d, want 5 and 5", res.PointsAwarded, res.NewBalance)
	}

	again, err := svc.Complete(ctx, instances[0].ID)
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if !again.AlreadyDone {
		t.Fatalf("second complete did not report AlreadyDone")
	}
	if again.PointsAwarded != 0 || again.NewBalance != 5 {
		t.Fatalf("second complete awarded=%d balance=%d, want 0 and 5", again.PointsAwarded, again.NewBalance)
	}

	balance, err := svc.GetBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 5 {
		t.Fatalf("balance=%d, want 5", balance)
	}
}

func TestCompleteConcurrentSingleCredit(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")
	addTestTemplate(t, svc, "Clean Room", 10)

	instances, err := svc.EnsureDailyTasks(ctx, child.ID, Day("2026-03-05"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	instID := instances[0].ID

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*CompleteResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Complete(ctx, instID)
		}(i)
	}
	wg.Wait()

	credited := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent complete #%d: %v", i, errs[i])
		}
		if !results[i].AlreadyDone {
			credited++
		}
	}
	if credited != 1 {
		t.Fatalf("%d callers credited points, want exactly 1", credited)
	}

	balance, err := svc.GetBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 10 {
		t.Fatalf("balance=%d after %d concurrent completes, want 10", balance, callers)
	}
}

func TestCompleteUnknownInstance(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.Complete(context.Background(), "no-such-instance")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err=%v, want NotFoundError", err)
	}
	if nf.Kind != "task instance" {
		t.Fatalf("kind=%q, want task instance", nf.Kind)
	}
}

func TestRedeemDebitsAndRecords(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	gift := addTestGift(t, svc, "Ice Cream", 10)
	grantPoints(t, svc, child.ID, 12)

	res, err := svc.Redeem(ctx, RedeemInput{ChildID: child.ID, GiftID: gift.ID})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if res.Cost != 10 || res.NewBalance != 2 {
		t.Fatalf("cost=%d balance=%d, want 10 and 2", res.Cost, res.NewBalance)
	}

	_, err = svc.Redeem(ctx, RedeemInput{ChildID: child.ID, GiftID: gift.ID})
	var short InsufficientBalanceError
	if !errors.As(err, &short) {
		t.Fatalf("second redeem err=%v, want InsufficientBalanceError", err)
	}
	if short.Missing() != 8 {
		t.Fatalf("missing=%d, want 8", short.Missing())
	}

	balance, err := svc.GetBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 2 {
		t.Fatalf("balance=%d after failed redeem, want 2", balance)
	}

	history, err := svc.ListRedemptions(ctx, child.ID)
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d rows, want 1", len(history))
	}
	if history[0].Title != "Ice Cream" || history[0].CostAtClaim != 10 {
		t.Fatalf("history row=%q/%d, want Ice Cream/10", history[0].Title, history[0].CostAtClaim)
	}
}

func TestRedeemConcurrentCannotOverdraw(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")
	gift := addTestGift(t, svc, "Movie Night", 10)
	grantPoints(t, svc, child.ID, 10)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]*RedeemResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Redeem(ctx, RedeemInput{ChildID: child.ID, GiftID: gift.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i := 0; i < callers; i++ {
		if errs[i] == nil {
			succeeded++
			continue
		}
		var short InsufficientBalanceError
		if !errors.As(errs[i], &short) {
			t.Fatalf("concurrent redeem #%d: %v", i, errs[i])
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d concurrent redemptions succeeded, want exactly 1", succeeded)
	}

	balance, err := svc.GetBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("balance=%d, want 0", balance)
	}
	if balance < 0 {
		t.Fatalf("balance went negative: %d", balance)
	}
}

func TestRedeemCostSnapshotSurvivesGiftEdit(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	gift := addTestGift(t, svc, "Toy Car", 10)
	grantPoints(t, svc, child.ID, 10)

	if _, err := svc.Redeem(ctx, RedeemInput{ChildID: child.ID, GiftID: gift.ID}); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if err := svc.UpdateGift(ctx, gift.ID, "Toy Car", 50); err != nil {
		t.Fatalf("update gift: %v", err)
	}

	history, err := svc.ListRedemptions(ctx, child.ID)
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if history[0].CostAtClaim != 10 {
		t.Fatalf("cost_at_claim=%d after gift edit, want 10", history[0].CostAtClaim)
	}
}

func TestRedeemClaimKeyReplays(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")
	gift := addTestGift(t, svc, "Sticker Pack", 5)
	grantPoints(t, svc, child.ID, 20)

	in := RedeemInput{ChildID: child.ID, GiftID: gift.ID, ClaimKey: "order-42"}
	first, err := svc.Redeem(ctx, in)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if first.Replayed {
		t.Fatalf("first redeem reported Replayed")
	}

	second, err := svc.Redeem(ctx, in)
	if err != nil {
		t.Fatalf("replay redeem: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("retry with same key did not replay")
	}
	if second.RedemptionID != first.RedemptionID {
		t.Fatalf("replay returned a new redemption: %s != %s", second.RedemptionID, first.RedemptionID)
	}
	if second.NewBalance != 15 {
		t.Fatalf("balance=%d after replay, want 15", second.NewBalance)
	}

	history, err := svc.ListRedemptions(ctx, child.ID)
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d rows after replay, want 1", len(history))
	}
}

func TestAdjustBalance(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")

	up, err := svc.AdjustBalance(ctx, AdjustInput{ChildID: child.ID, Delta: 7, Note: "bonus"})
	if err != nil {
		t.Fatalf("credit adjust: %v", err)
	}
	if up.NewBalance != 7 {
		t.Fatalf("balance=%d after +7, want 7", up.NewBalance)
	}

	down, err := svc.AdjustBalance(ctx, AdjustInput{ChildID: child.ID, Delta: -3})
	if err != nil {
		t.Fatalf("debit adjust: %v", err)
	}
	if down.NewBalance != 4 {
		t.Fatalf("balance=%d after -3, want 4", down.NewBalance)
	}

	_, err = svc.AdjustBalance(ctx, AdjustInput{ChildID: child.ID, Delta: -100})
	var short InsufficientBalanceError
	if !errors.As(err, &short) {
		t.Fatalf("overdraw adjust err=%v, want InsufficientBalanceError", err)
	}
	balance, err := svc.GetBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 4 {
		t.Fatalf("balance=%d after rejected overdraw, want 4", balance)
	}
}

func TestAdjustKeyReplays(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")

	in := AdjustInput{ChildID: child.ID, Delta: 5, AdjustKey: "grant-1"}
	first, err := svc.AdjustBalance(ctx, in)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	second, err := svc.AdjustBalance(ctx, in)
	if err != nil {
		t.Fatalf("replay adjust: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("retry with same key did not replay")
	}
	if second.AdjustmentID != first.AdjustmentID {
		t.Fatalf("replay created a new adjustment")
	}
	if second.NewBalance != 5 {
		t.Fatalf("balance=%d after replay, want 5", second.NewBalance)
	}
}

func TestInstanceSnapshotSurvivesTemplateDelete(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")
	tmpl := addTestTemplate(t, svc, "Water Plants", 6)

	instances, err := svc.EnsureDailyTasks(ctx, child.ID, Day("2026-03-06"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.RemoveTaskTemplate(ctx, tmpl.ID); err != nil {
		t.Fatalf("remove template: %v", err)
	}

	listed, err := svc.ListDay(ctx, child.ID, Day("2026-03-06"))
	if err != nil {
		t.Fatalf("list day: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d instances after template delete, want 1", len(listed))
	}
	if listed[0].Title != "Water Plants" || listed[0].Points != 6 {
		t.Fatalf("snapshot lost: %q/%d", listed[0].Title, listed[0].Points)
	}

	res, err := svc.Complete(ctx, instances[0].ID)
	if err != nil {
		t.Fatalf("complete orphaned instance: %v", err)
	}
	if res.PointsAwarded != 6 {
		t.Fatalf("awarded=%d for orphaned instance, want 6", res.PointsAwarded)
	}
}

func TestSeedDefaultTasksRunsOnce(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.SeedDefaultTasks(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 10 {
		t.Fatalf("seeded %d templates, want 10", n)
	}

	n, err = svc.SeedDefaultTasks(ctx)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if n != 0 {
		t.Fatalf("second seed created %d templates, want 0", n)
	}

	templates, err := svc.ListTaskTemplates(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 10 {
		t.Fatalf("catalog has %d templates, want 10", len(templates))
	}
	if templates[0].Title != "Brush Teeth" || templates[0].Points != 5 {
		t.Fatalf("first seed task=%q/%d, want Brush Teeth/5", templates[0].Title, templates[0].Points)
	}
}

func TestAuditBalanceConsistent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Reem")
	addTestTemplate(t, svc, "Brush Teeth", 5)
	addTestTemplate(t, svc, "Clean Room", 10)
	gift := addTestGift(t, svc, "Ice Cream", 8)

	instances, err := svc.EnsureDailyTasks(ctx, child.ID, Day("2026-03-07"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, inst := range instances {
		if _, err := svc.Complete(ctx, inst.ID); err != nil {
			t.Fatalf("complete %s: %v", inst.Title, err)
		}
	}
	if _, err := svc.Redeem(ctx, RedeemInput{ChildID: child.ID, GiftID: gift.ID}); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if _, err := svc.AdjustBalance(ctx, AdjustInput{ChildID: child.ID, Delta: 2, Note: "bonus"}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	stored, computed, err := svc.AuditBalance(ctx, child.ID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if stored != computed {
		t.Fatalf("stored=%d computed=%d, want equal", stored, computed)
	}
	if stored != 9 { // 5 + 10 - 8 + 2
		t.Fatalf("balance=%d, want 9", stored)
	}
}

func TestReorderTaskTemplates(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	a := addTestTemplate(t, svc, "First", 5)
	b := addTestTemplate(t, svc, "Second", 5)
	c := addTestTemplate(t, svc, "Third", 5)

	if err := svc.ReorderTaskTemplates(ctx, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	templates, err := svc.ListTaskTemplates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{templates[0].Title, templates[1].Title, templates[2].Title}
	want := []string{"Third", "First", "Second"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v, want %v", got, want)
		}
	}

	if err := svc.ReorderTaskTemplates(ctx, []string{a.ID, b.ID}); err == nil {
		t.Fatalf("expected error for incomplete id set")
	}
	if err := svc.ReorderTaskTemplates(ctx, []string{a.ID, b.ID, "bogus"}); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestFindChildByIDOrName(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	child := addTestChild(t, svc, "Karim")

	byID, err := svc.FindChild(ctx, child.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.ID != child.ID {
		t.Fatalf("find by id returned %s", byID.ID)
	}

	byName, err := svc.FindChild(ctx, "Karim")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if byName.ID != child.ID {
		t.Fatalf("find by name returned %s", byName.ID)
	}

	_, err = svc.FindChild(ctx, "nobody")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err=%v, want NotFoundError", err)
	}
}
