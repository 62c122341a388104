package inventory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestAddValidates(t *testing.T) {
	c := New(nil)
	if _, err := c.Add("  ", 100); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := c.Add("Tea", -1); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("negative price err = %v", err)
	}
	if _, err := c.Add(" Tea ", 1000); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.Add("tea", 1200); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate err = %v", err)
	}
	if _, err := c.Add("Water", 0); err != nil {
		t.Fatalf("free item should be allowed: %v", err)
	}
	if diff := cmp.Diff([]string{"Tea", "Water"}, names(c.List())); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	c := New(nil)
	tea, _ := c.Add("Tea", 1000)
	coffee, _ := c.Add("Coffee", 1500)
	if _, err := c.Update(coffee.ID, "TEA", 1500); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("rename onto existing err = %v", err)
	}
	updated, err := c.Update(tea.ID, "Tea", 1250)
	if err != nil {
		t.Fatalf("update own name: %v", err)
	}
	if updated.Price != 1250 {
		t.Fatalf("price = %v", updated.Price)
	}
	if _, err := c.Delete(tea.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(tea.ID); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("get deleted err = %v", err)
	}
	if _, err := c.Delete(tea.ID); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("double delete err = %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestSearch(t *testing.T) {
	c := New(nil)
	for _, n := range []string{"Pepsi", "Nescafe", "Tea with milk", "Indomie"} {
		if _, err := c.Add(n, 500); err != nil {
			t.Fatal(err)
		}
	}
	got := names(c.Search("nes"))
	if len(got) == 0 || got[0] != "Nescafe" {
		t.Fatalf("search nes = %v", got)
	}
	if len(c.Search("")) != 4 {
		t.Fatalf("blank search should list everything")
	}
	if len(c.Search("zzz")) != 0 {
		t.Fatalf("expected no matches")
	}
}
