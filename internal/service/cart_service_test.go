package service

import (
	"errors"
	"testing"

	"github.com/shopfront-next/internal/constants"
)

func TestAddItemStartsAtQuantityOne(t *testing.T) {
	cart, _ := setupCartService(t)

	added, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !added {
		t.Fatalf("expected first add to report added")
	}

	snap := cart.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.ItemCount != 1 {
		t.Fatalf("unexpected item count: %d", snap.ItemCount)
	}
}

func TestAddDuplicateItemIsNoop(t *testing.T) {
	cart, _ := setupCartService(t)

	input := AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}
	if _, err := cart.AddItem(input); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart.IncrementQuantity(1)

	// 重复加入同一商品不得改动数量
	added, err := cart.AddItem(input)
	if err != nil {
		t.Fatalf("duplicate add failed: %v", err)
	}
	if added {
		t.Fatalf("duplicate add must be a no-op")
	}
	if got := cart.Snapshot().Items[0].Quantity; got != 2 {
		t.Fatalf("duplicate add changed quantity to %d", got)
	}
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	cart, _ := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 0, Title: "Hat"}); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for bad id, got %v", err)
	}
	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: ""}); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for empty title, got %v", err)
	}
	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "-1")}); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for negative price, got %v", err)
	}
}

func TestDecrementFloorsAtOne(t *testing.T) {
	cart, _ := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart.IncrementQuantity(1)
	cart.DecrementQuantity(1)
	cart.DecrementQuantity(1)
	cart.DecrementQuantity(1)

	snap := cart.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("decrement must never remove the line")
	}
	if snap.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity floor at 1, got %d", snap.Items[0].Quantity)
	}
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	cart, _ := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart.IncrementQuantity(1)
	cart.IncrementQuantity(1)

	cart.RemoveItem(1)
	if got := cart.Snapshot().ItemCount; got != 0 {
		t.Fatalf("expected empty cart after remove, got %d", got)
	}

	// 移除不存在的商品是 no-op
	cart.RemoveItem(42)
}

func TestSnapshotTotals(t *testing.T) {
	cart, _ := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := cart.AddItem(AddItemInput{ProductID: 2, Title: "Shirt", UnitPrice: money(t, "20.00")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart.IncrementQuantity(2)

	snap := cart.Snapshot()
	if snap.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", snap.ItemCount)
	}
	if snap.Subtotal.String() != "49.99" {
		t.Fatalf("expected subtotal 49.99, got %s", snap.Subtotal.String())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cart, _ := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	snap := cart.Snapshot()
	snap.Items[0].Quantity = 99

	if got := cart.Snapshot().Items[0].Quantity; got != 1 {
		t.Fatalf("mutating a snapshot leaked into the cart: %d", got)
	}
}

func TestCartPersistsAcrossRestart(t *testing.T) {
	cart, store := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart.IncrementQuantity(1)

	// 同一个存储再建一个服务，模拟进程重启
	reloaded := NewCartService(store)
	snap := reloaded.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
		t.Fatalf("cart not rehydrated: %+v", snap)
	}
}

func TestCartDurableShapeMatchesContract(t *testing.T) {
	cart, store := setupCartService(t)

	if _, err := cart.AddItem(AddItemInput{ProductID: 7, Title: "Hat", UnitPrice: money(t, "9.99"), ImageRef: "hat.png"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var raw []map[string]interface{}
	found, err := store.Get(constants.StoreKeyCart, &raw)
	if err != nil || !found {
		t.Fatalf("cart key missing: found=%v err=%v", found, err)
	}
	item := raw[0]
	for _, field := range []string{"id", "title", "price", "image", "quantity"} {
		if _, ok := item[field]; !ok {
			t.Fatalf("durable cart item missing field %q: %v", field, item)
		}
	}
}

func TestCorruptCartStartsEmpty(t *testing.T) {
	_, store := setupCartService(t)
	if err := store.Set(constants.StoreKeyCart, "not-an-array"); err != nil {
		t.Fatalf("seed corrupt cart failed: %v", err)
	}

	cart := NewCartService(store)
	if got := cart.Snapshot().ItemCount; got != 0 {
		t.Fatalf("corrupt cart should start empty, got %d items", got)
	}
}

func TestCartMutationsSurviveStorageFailure(t *testing.T) {
	cart := NewCartService(newFailingStore())

	added, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "10.00")})
	if err != nil || !added {
		t.Fatalf("add must succeed despite write failure, got added=%v err=%v", added, err)
	}
	cart.IncrementQuantity(1)
	if got := cart.Snapshot().ItemCount; got != 2 {
		t.Fatalf("in-memory state must survive write failure, got count %d", got)
	}
	if err := cart.Clear(); err != nil {
		t.Fatalf("clear must succeed despite write failure: %v", err)
	}
	if got := cart.Snapshot().ItemCount; got != 0 {
		t.Fatalf("expected empty cart after clear, got %d", got)
	}
}
