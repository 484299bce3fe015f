package result

import "testing"

func TestNew(t *testing.T) {
	r := New("doc-1", "report.pdf", 0.95, -0.25, "hello world")

	if r.PDFID() != "doc-1" {
		t.Errorf("PDFID() = %q", r.PDFID())
	}
	if r.Filename() != "report.pdf" {
		t.Errorf("Filename() = %q", r.Filename())
	}
	if r.Confidence() != 0.95 {
		t.Errorf("Confidence() = %f", r.Confidence())
	}
	if r.Sentiment() != -0.25 {
		t.Errorf("Sentiment() = %f", r.Sentiment())
	}
	if r.Snippet() != "hello world" {
		t.Errorf("Snippet() = %q", r.Snippet())
	}
}

func TestNew_RoundsToFourDecimals(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"truncates long fraction", 0.123456789, 0.1235},
		{"rounds half up", 0.00005, 0.0001},
		{"negative rounds away from zero", -0.66667, -0.6667},
		{"exact value unchanged", 0.5, 0.5},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New("id", "f.pdf", tc.in, tc.in, "")
			if r.Confidence() != tc.want {
				t.Errorf("Confidence() = %v, want %v", r.Confidence(), tc.want)
			}
			if r.Sentiment() != tc.want {
				t.Errorf("Sentiment() = %v, want %v", r.Sentiment(), tc.want)
			}
		})
	}
}
