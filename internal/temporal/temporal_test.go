package temporal

import "testing"

func TestExtractYearBCE(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("La cité fut fondée en 412 av. J.-C. par des colons grecs.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != -412 {
		t.Fatalf("expected -412, got %d", year)
	}
}

func TestExtractYearEarliestWins(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("Construit en 1532, le bâtiment fut restauré en 1890.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != 1532 {
		t.Fatalf("expected 1532, got %d", year)
	}
}

func TestExtractYearRomanCentury(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("Un château du XVIe siècle domine la vallée.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != 1550 {
		t.Fatalf("expected 1550, got %d", year)
	}
}

func TestExtractYearArabicCentury(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("Une chapelle du 12e siècle se dresse sur la colline.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != 1150 {
		t.Fatalf("expected 1150, got %d", year)
	}
}

func TestExtractYearCenturyBCE(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("Un oppidum du IIe siècle av. J.-C. occupait le plateau.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != -150 {
		t.Fatalf("expected -150, got %d", year)
	}
}

func TestExtractYearExplicitBeatsCentury(t *testing.T) {
	t.Parallel()

	year, ok := ExtractYear("Édifice du XIIe siècle, incendié en 1794 pendant la Terreur.")
	if !ok {
		t.Fatalf("expected a year")
	}
	if year != 1794 {
		t.Fatalf("expected 1794, got %d", year)
	}
}

func TestExtractYearNone(t *testing.T) {
	t.Parallel()

	if year, ok := ExtractYear("Aucun indice temporel dans ce texte."); ok {
		t.Fatalf("expected no year, got %d", year)
	}
}

func TestCenturyLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"roman century", "Un château du XVIe siècle domine la vallée.", "XVIe"},
		{"arabic century", "Une chapelle du 12e siècle.", "XIIe"},
		{"century bce", "Un oppidum du IIe siècle av. J.-C.", "IIe av. J.-C."},
		{"first century", "Un temple du Ier siècle.", "Ier"},
		{"explicit year wins", "Du XIIe siècle, incendié en 1794.", ""},
		{"no century", "Aucun indice temporel.", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CenturyLabel(tc.text); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
