package utils

import (
	"math"
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if Truncate("日本語テキスト", 3) != "日本語..." {
		t.Errorf("rune truncation: got %s", Truncate("日本語テキスト", 3))
	}
}

func TestTerms(t *testing.T) {
	got := Terms("How many days do I have to return an item? 30-day window!")
	want := []string{"how", "many", "days", "do", "i", "have", "to", "return", "an", "item", "30", "day", "window"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
	if len(Terms("  ...  ")) != 0 {
		t.Error("punctuation only should yield no terms")
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "The refund policy allows returns within 30 days.", []string{"The refund policy allows returns within 30 days."}},
		{"several", "First one. Second one! Third?", []string{"First one.", "Second one!", "Third?"}},
		{"decimal kept", "Version 1.5 is out. Yes.", []string{"Version 1.5 is out.", "Yes."}},
		{"blank line", "Heading\n\nBody text", []string{"Heading", "Body text"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentences(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("got %v", v)
	}
	zero := []float32{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should stay zero, got %v", zero)
	}
	if math.Abs(L2Norm([]float32{3, 4})-5) > 1e-9 {
		t.Error("L2Norm(3,4) should be 5")
	}
}
