package flow

import "testing"

func TestListingTitle(t *testing.T) {
	cases := []struct {
		neighborhood, street, roomCount, want string
	}{
		{"Acme Heights", "Elm St", "3 + 1", "Acme Heights-Elm St-3 + 1"},
		{"Acme *Heights!", "Elm. St?", "2 + 1", "Acme Heights-Elm St-2 + 1"},
		{"Çamlıca", "İnönü Cd", "1 + 1", "Çamlıca-İnönü Cd-1 + 1"},
		{"", "", "3 + 1", "--3 + 1"},
	}
	for _, c := range cases {
		if got := ListingTitle(c.neighborhood, c.street, c.roomCount); got != c.want {
			t.Errorf("ListingTitle(%q, %q, %q) = %q, want %q", c.neighborhood, c.street, c.roomCount, got, c.want)
		}
	}
}

func TestFolderNameCarriesMarketingSuffix(t *testing.T) {
	got := FolderName("Acme Heights", "Elm St", "3 + 1")
	want := "Acme Heights-Elm St-3 + 1" + MarketingSuffix
	if got != want {
		t.Errorf("FolderName = %q, want %q", got, want)
	}
}

func TestIsDefaultRoomType(t *testing.T) {
	for input, want := range map[string]bool{
		"3 + 1":    true,
		"  3 + 1 ": true,
		"3+1":      false,
		"2 + 1":    false,
		"":         false,
	} {
		if got := IsDefaultRoomType(input); got != want {
			t.Errorf("IsDefaultRoomType(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestTitleFromDisplay(t *testing.T) {
	cases := []struct {
		display, want string
	}{
		{"Listings/2 + 1/Acme Heights-Elm St-2 + 1 #SADEEVIM (id: abc-123)", "Acme Heights-Elm St-2 + 1"},
		{"Acme Heights-Elm St-3 + 1 #SADEEVIM", "Acme Heights-Elm St-3 + 1"},
		{"Acme Heights-Elm St-3 + 1", "Acme Heights-Elm St-3 + 1"},
		{"a/b/c (id: x)", "c"},
	}
	for _, c := range cases {
		if got := TitleFromDisplay(c.display); got != c.want {
			t.Errorf("TitleFromDisplay(%q) = %q, want %q", c.display, got, c.want)
		}
	}
}
