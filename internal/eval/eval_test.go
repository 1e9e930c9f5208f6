package eval

import (
	"testing"

	"github.com/cwbudde/weave/internal/value"
)

func TestIsBooleanExpression(t *testing.T) {
	cases := map[string]bool{
		"counter + 1":       false,
		"counter == 1":      true,
		"counter != 1":      true,
		"counter >= 1":      true,
		"flag1 AND flag2":   true,
		"flag1 or flag2":    true,
		"not flag1":         true,
		"android + 1":       false,
		"(a + 1) * 2":       false,
		`"a" == "b"`:        true,
	}
	for expr, want := range cases {
		if got := IsBooleanExpression(expr); got != want {
			t.Errorf("IsBooleanExpression(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestEvaluateNumeric_Arithmetic(t *testing.T) {
	reg := value.NewRegistry()
	reg.Set("counter", value.NewInt(5))

	cases := map[string]float64{
		"1 + 2":              3,
		"2 * 3 + 4":          10,
		"2 * (3 + 4)":        14,
		"counter + 1":        6,
		"10 / 2 / 5":         1,
		"1.5 + 1.5":          3,
		"-1 + 5":             4,
	}
	for expr, want := range cases {
		got, err := EvaluateNumeric(expr, reg)
		if err != nil {
			t.Errorf("EvaluateNumeric(%q) error: %v", expr, err)
			continue
		}
		if got != want {
			t.Errorf("EvaluateNumeric(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestEvaluateNumeric_Errors(t *testing.T) {
	reg := value.NewRegistry()
	reg.Set("name", value.NewString("hi"))

	cases := []string{
		"1 +",
		"(1 + 2",
		"1 + 2)",
		"name + 1",
		"unknownVar + 1",
		"1 / 0",
	}
	for _, expr := range cases {
		if _, err := EvaluateNumeric(expr, reg); err == nil {
			t.Errorf("EvaluateNumeric(%q) expected error, got none", expr)
		}
	}
}

func TestEvaluateBoolean_Comparisons(t *testing.T) {
	reg := value.NewRegistry()
	reg.Set("counter", value.NewInt(3))
	reg.Set("flag1", value.NewBool(true))
	reg.Set("flag2", value.NewBool(false))

	cases := map[string]bool{
		"counter < 3":          false,
		"counter >= 3":         true,
		"counter == 3":         true,
		"flag1 and flag2":      false,
		"flag1 or flag2":       true,
		"not flag2":            true,
		"true":                 true,
		"false":                false,
		`"abc" == "abc"`:       true,
		`"abc" != "xyz"`:       true,
	}
	for expr, want := range cases {
		got, err := EvaluateBoolean(expr, reg)
		if err != nil {
			t.Errorf("EvaluateBoolean(%q) error: %v", expr, err)
			continue
		}
		if got != want {
			t.Errorf("EvaluateBoolean(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestEvaluateBoolean_UnregisteredIdentIsStringLiteral(t *testing.T) {
	reg := value.NewRegistry()
	got, err := EvaluateBoolean(`myfile == myfile`, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatalf("expected true, got false")
	}
}

func TestEvaluateBoolean_StringVsNumberIsError(t *testing.T) {
	reg := value.NewRegistry()
	reg.Set("counter", value.NewInt(1))
	if _, err := EvaluateBoolean(`counter == "one"`, reg); err == nil {
		t.Fatal("expected error comparing number to string")
	}
}
