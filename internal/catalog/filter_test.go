package catalog

import (
	"testing"
)

func filterIDs(qs []Question) []string {
	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

func TestFilterApply(t *testing.T) {
	qs := []Question{
		{ID: "1", Area: "CLÍNICA MÉDICA", Theme: "FARMACOLOGIA", Faculty: "UFV", Year: "2022", Body: "Diurético de alça"},
		{ID: "2", Area: "CLÍNICA CIRÚRGICA", Theme: "CIRURGIA GERAL", Faculty: "UFMG", Year: "2021", Body: "Torção gástrica", IsFavorited: true},
		{ID: "3", Area: "ANESTESIOLOGIA", Theme: "FARMACOLOGIA ANESTÉSICA", Faculty: "UFPR", Year: "2022", Body: "Sevoflurano", IsSaved: true},
		{ID: "4", Body: "Sem área"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"1", "2", "3", "4"}},
		{"area case-insensitive", Filter{Area: "clínica médica"}, []string{"1"}},
		{"theme exact not prefix", Filter{Theme: "farmacologia"}, []string{"1"}},
		{"year", Filter{Year: "2022"}, []string{"1", "3"}},
		{"faculty", Filter{Faculty: "UFMG"}, []string{"2"}},
		{"search body", Filter{Search: "GÁSTRICA"}, []string{"2"}},
		{"search theme", Filter{Search: "farmaco"}, []string{"1", "3"}},
		{"favorited", Filter{Favorited: true}, []string{"2"}},
		{"saved", Filter{Saved: true}, []string{"3"}},
		{"combined", Filter{Year: "2022", Search: "anest"}, []string{"3"}},
		{"no match", Filter{Area: "ZOOTECNIA"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterIDs(tt.filter.Apply(qs))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestAreasAndThemes(t *testing.T) {
	qs := []Question{
		{ID: "1", Area: "B", Theme: "x"},
		{ID: "2", Area: "A", Theme: "x"},
		{ID: "3", Area: "B", Theme: "y"},
		{ID: "4"},
	}

	areas := Areas(qs)
	if len(areas) != 2 || areas[0] != "B" || areas[1] != "A" {
		t.Errorf("Areas = %v, want [B A]", areas)
	}
	themes := Themes(qs)
	if len(themes) != 2 || themes[0] != "x" || themes[1] != "y" {
		t.Errorf("Themes = %v, want [x y]", themes)
	}
}
