package listing_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"meddir/internal/domain"
	"meddir/internal/listing"
)

func TestSort_AlphabeticalUsesRussianCollation(t *testing.T) {
	items := []domain.Institution{
		inst("k", "Клиника Здоровье", false, 0),
		inst("yo", "Ёлочка", false, 0),
		inst("b", "Больница №1", true, 0),
		inst("e", "Евромед", true, 0),
		inst("a", "аптека Центр", false, 0),
		inst("zh", "Железнодорожная больница", false, 0),
	}
	listing.Sort(items, domain.SortAlphabetical)

	// Case is ignored and Ё sorts with Е; codepoint order would put Ё before А
	// and lower-case "а" after every upper-case letter.
	want := []string{"a", "b", "e", "yo", "zh", "k"}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Fatalf("alphabetical order mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_PriceFreeFirst(t *testing.T) {
	items := []domain.Institution{
		inst("p1", "А", true, 0),
		inst("f1", "Б", false, 0),
		inst("p2", "В", true, 0),
		inst("f2", "Г", false, 0),
	}
	listing.Sort(items, domain.SortPrice)

	want := []string{"f1", "f2", "p1", "p2"}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Fatalf("price order mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_RatingDescending(t *testing.T) {
	items := []domain.Institution{
		inst("a", "Аптека Центр", false, 4.0),
		inst("b", "Больница №1", true, 4.8),
		inst("c", "Клиника Здоровье", false, 3.5),
	}
	listing.Sort(items, domain.SortRating)

	want := []string{"b", "a", "c"}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Fatalf("rating order mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_IsIdempotent(t *testing.T) {
	for _, mode := range []domain.SortMode{domain.SortAlphabetical, domain.SortPrice, domain.SortRating} {
		items := []domain.Institution{
			inst("1", "Пирогова", true, 4.1),
			inst("2", "Авиценна", false, 4.9),
			inst("3", "Медеа", true, 3.2),
			inst("4", "Здравница", false, 4.1),
		}
		listing.Sort(items, mode)
		first := ids(items)
		listing.Sort(items, mode)
		if diff := cmp.Diff(first, ids(items)); diff != "" {
			t.Fatalf("%s: second sort changed order (-first +second):\n%s", mode, diff)
		}
	}
}
