package jptext

import "testing"

func TestFilterJapanese_MixedScript(t *testing.T) {
	got := FilterJapanese("Chapter 1: 猫が見た。The end.")
	want := "猫が見た。"
	if got != want {
		t.Errorf("FilterJapanese = %q, want %q", got, want)
	}
}

func TestFilterJapanese_RemovesIdeographicSpace(t *testing.T) {
	got := FilterJapanese("猫　犬")
	want := "猫犬"
	if got != want {
		t.Errorf("FilterJapanese = %q, want %q", got, want)
	}
}

func TestFilterJapanese_KeepsKanaAndFullwidth(t *testing.T) {
	in := "カタカナひらがなＡＢ？！"
	got := FilterJapanese(in)
	if got != in {
		t.Errorf("FilterJapanese = %q, want %q", got, in)
	}
}

func TestFilterJapanese_Empty(t *testing.T) {
	if got := FilterJapanese("only latin text 123"); got != "" {
		t.Errorf("FilterJapanese = %q, want empty", got)
	}
}

func TestStripRuby(t *testing.T) {
	in := `<p><ruby>猫<rt>ねこ</rt></ruby>が鳴いた</p>`
	got := StripRuby(in)
	want := `<p>猫が鳴いた</p>`
	if got != want {
		t.Errorf("StripRuby = %q, want %q", got, want)
	}
}

func TestStripRuby_WithRpFallback(t *testing.T) {
	in := `<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>`
	got := StripRuby(in)
	want := "漢字"
	if got != want {
		t.Errorf("StripRuby = %q, want %q", got, want)
	}
}

func TestCleanToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"猫", "猫"},
		{" 猫 ", "猫"},
		{"猫12", "猫"},
		{"...", ""},
		{"\t\r\n", ""},
		{"見た?", "見た"},
	}
	for _, c := range cases {
		if got := CleanToken(c.in); got != c.want {
			t.Errorf("CleanToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
