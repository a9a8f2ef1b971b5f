package sanitize

import "testing"

func TestDisplayText(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":        "Jane Doe",
		"  Jane\n\tDoe  ": "Jane Doe",
		"<b>Jane</b> Doe": "Jane Doe",
		"&lt;script&gt;alert(1)&lt;/script&gt;Jane": "alert(1)Jane",
		"Smith &amp; Sons":                          "Smith & Sons",
		"":                                          "",
	}
	for in, want := range cases {
		if got := DisplayText(in); got != want {
			t.Errorf("DisplayText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayTextPtr(t *testing.T) {
	if DisplayTextPtr(nil) != nil {
		t.Fatal("nil must stay nil")
	}
	blank := "<br/>  "
	if DisplayTextPtr(&blank) != nil {
		t.Fatal("blank after cleaning must become nil")
	}
	src := "Zillow <i>ad</i>"
	if got := DisplayTextPtr(&src); got == nil || *got != "Zillow ad" {
		t.Fatalf("unexpected result %v", got)
	}
}
