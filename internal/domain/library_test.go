package domain

import "testing"

func TestSortChapters(t *testing.T) {
	chapters := []Chapter{
		{Number: 2, Title: "Chapter 2"},
		{Number: 0, Title: "Omake"},
		{Number: 1.5, Title: "Chapter 1.5"},
		{Number: 0, Title: "Extras"},
		{Number: 1, Title: "Chapter 1"},
	}

	SortChapters(chapters)

	want := []string{"Omake", "Extras", "Chapter 1", "Chapter 1.5", "Chapter 2"}
	for i, title := range want {
		if chapters[i].Title != title {
			t.Errorf("chapters[%d] = %q, want %q", i, chapters[i].Title, title)
		}
	}
}
