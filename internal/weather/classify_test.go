package weather

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"", Default},
		{"Rain", Rain},
		{"Drizzle", Rain},
		{"Thunderstorm", Rain},
		{"Snow", Snow},
		{"Mist", Clouds},
		{"Fog", Clouds},
		{"Haze", Clouds},
		{"Smoke", Clouds},
		{"Clear", Clear},
		{"Clouds", Clouds},
		{"Tornado", Default},
		{"Sand", Default},
		{"rain", Default}, // case-sensitive: OpenWeather mains are capitalized
	}

	for _, tt := range tests {
		name := tt.raw
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassify_Stable(t *testing.T) {
	inputs := []string{"", "Rain", "Thunderstorm", "Snow", "Clear", "Clouds", "Tornado"}
	for _, raw := range inputs {
		first := Classify(raw)
		for i := 0; i < 3; i++ {
			if got := Classify(raw); got != first {
				t.Errorf("Classify(%q) changed between calls: %q then %q", raw, first, got)
			}
		}
	}
}

func TestValid(t *testing.T) {
	for _, c := range Categories() {
		if !Valid(string(c)) {
			t.Errorf("Valid(%q) = false, want true", c)
		}
	}
	for _, s := range []string{"", "rain", "Sunny"} {
		if Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}
